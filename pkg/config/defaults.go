package config

// Bench defaults.
const (
	DefaultRuns      = 1
	DefaultWarmup    = true
	DefaultVerify    = true
	DefaultCompare   = true
	DefaultDecode    = true
	DefaultEncode    = true
	DefaultRecurse   = true
	DefaultExtension = ".png"
	DefaultReference = "lz4"
)

// Output defaults.
const (
	DefaultFormat      = "text"
	DefaultOnlyTotals  = false
	DefaultNoColor     = false
	DefaultMetricsFile = ""
)

// Logging defaults. Warnings only, so the report on stdout stays readable.
const (
	DefaultLogLevel = "warn"
	DefaultLogJSON  = false
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultOTLPHeaders  = ""
	DefaultSampleRatio  = 0.0
	DefaultEnvironment  = ""
)
