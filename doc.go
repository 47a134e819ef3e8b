// Copyright 2024 The extrativista-sheets Authors. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package extrativista-sheets is the registration form for the forest-resource extractors of the FLOTA do
Trombetas, with the registrations kept as rows of a Google Sheets worksheet.

Each submission is validated (name, CPF and consent are required), stamped with the submission time and
appended to the worksheet. A password protected admin area lists the registrations and exports them as
dados_flota.csv.

extrativista-sheets supports the following commands:

  - authorise, to authorise application access to the Google Sheets worksheet
  - run, to serve the registration form and the admin area
  - get, to download the registrations as a CSV or TSV file
  - put, to replace the registrations with the contents of a CSV or TSV file
  - version, to display the current version
*/
package sheets
