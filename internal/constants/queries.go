package constants

// Read-side audit queries. Written with ? placeholders and rebound per driver.
// The optional filter is appended as a WHERE clause before the ordering suffix.
const (
	SelectEditLogs = `
	SELECT e.id, e.station_id, e.field, e.old_value, e.new_value, e.edited_by, e.created_at,
	       COALESCE(s.call_letters, '') AS call_letters,
	       COALESCE(s.market_name, '') AS market_name,
	       COALESCE(u.name, '') AS editor_name
	FROM edit_logs e
	LEFT JOIN stations s ON s.id = e.station_id
	LEFT JOIN users u ON u.id = e.edited_by`

	CountEditLogs = `SELECT COUNT(*) FROM edit_logs e`

	EditLogStationFilter = ` WHERE e.station_id = ?`

	EditLogPage = ` ORDER BY e.created_at DESC, e.id DESC LIMIT ? OFFSET ?`

	SelectCallLogs = `
	SELECT c.id, c.station_id, c.phone_id, c.phone_number, c.called_by, c.created_at,
	       COALESCE(s.call_letters, '') AS call_letters,
	       COALESCE(s.market_name, '') AS market_name,
	       COALESCE(p.label, '') AS phone_label,
	       COALESCE(u.name, '') AS caller_name
	FROM call_logs c
	LEFT JOIN stations s ON s.id = c.station_id
	LEFT JOIN phone_numbers p ON p.id = c.phone_id
	LEFT JOIN users u ON u.id = c.called_by`

	CountCallLogs = `SELECT COUNT(*) FROM call_logs c`

	CallLogCallerFilter = ` WHERE c.called_by = ?`

	CallLogPage = ` ORDER BY c.created_at DESC, c.id DESC LIMIT ? OFFSET ?`
)
