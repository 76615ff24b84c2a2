package constants

const (
	Version        = `0.1.0`
	AppName        = `mixsearch`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.mixsearch/`
	DatabaseFile   = `mixsearch.db`
	LogFile        = `mixsearch.log`

	// ResultLimit is the number of rows a search section shows before
	// offering "more".
	ResultLimit = 3
	// CategoryLimit bounds the expanded single-category page.
	CategoryLimit = 100

	// MinIDOrPhoneLength is the shortest keyword that may be an identity
	// number or a phone number.
	MinIDOrPhoneLength = 4
	IDOrPhoneChars     = `+0123456789`
	DefaultPhoneRegion = `US`

	DefaultAPIBaseURL = `https://api.mixin.one`

	// SkipStateAnnotation marks commands that run without opening the store.
	SkipStateAnnotation = `mixsearch/skip-state`
)
