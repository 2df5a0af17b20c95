package constants

const (
	MsgUnauthorized       = "Unauthorized"
	MsgForbidden          = "Forbidden"
	MsgInvalidBody        = "Invalid request body"
	MsgNoFile             = "No file provided"
	MsgNoRows             = "No data in CSV"
	MsgNoStationsSelected = "No stations selected"
	MsgImportFailed       = "Failed to import CSV"
	MsgInternal           = "Internal server error"
)

const (
	MsgImportCompleted = "Import completed"
	MsgBulkUpdated     = "Stations updated"
	MsgStationUpdated  = "Station updated"
	MsgStationCreated  = "Station created"
	MsgPhoneCreated    = "Phone created"
	MsgPhoneUpdated    = "Phone updated"
	MsgPhoneDeleted    = "Phone deleted"
	MsgPrimaryUpdated  = "Primary phone updated"
	MsgCallLogged      = "Call logged"
	MsgCallsReset      = "Call indicators reset"
)
