package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixCalledToday CachePrefix = "CALLED_TODAY_"
)

// Phone and station limits
const (
	MaxPhonesPerStation = 4
	MinMarketNumber     = 1
	MaxMarketNumber     = 210
	DefaultPhoneRegion  = "US"
)

// Import and paging limits
const (
	ImportErrorPreviewLimit = 10
	DefaultPageLimit        = 50
	MaxPageLimit            = 200
)
