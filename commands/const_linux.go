package commands

const (
	_etc = "/usr/local/etc/extrativista"
	_var = "/usr/local/var/extrativista"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
