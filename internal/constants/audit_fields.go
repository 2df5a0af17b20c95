package constants

// Field names recorded in edit_logs.field. Station fields use their API names.
const (
	FieldMarketName      = "marketName"
	FieldCallLetters     = "callLetters"
	FieldFeed            = "feed"
	FieldBroadcastStatus = "broadcastStatus"
	FieldAirTimeLocal    = "airTimeLocal"
	FieldAirTimeET       = "airTimeET"
	FieldIsActive        = "isActive"

	// Synthetic fields for mutations that are not column diffs
	FieldPhones  = "phones"
	FieldStation = "station"
)

// StationFields is the patch whitelist in the order audit entries are emitted.
var StationFields = []string{
	FieldMarketName,
	FieldCallLetters,
	FieldFeed,
	FieldBroadcastStatus,
	FieldAirTimeLocal,
	FieldAirTimeET,
	FieldIsActive,
}
