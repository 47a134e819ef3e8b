package commands

const (
	_etc = "/usr/local/etc/br.gov.pa.ideflor"
	_var = "/usr/local/var/br.gov.pa.ideflor"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/extrativista/.google/credentials.json"
)
