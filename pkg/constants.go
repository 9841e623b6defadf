package dupehash

// Hash type constants
const (
	HashTypeSHA1     uint16 = 1 // SHA-1 (20 bytes)
	HashTypeSHA256   uint16 = 2 // SHA-256 (32 bytes)
	HashTypeSHA512   uint16 = 3 // SHA-512 (64 bytes)
	HashTypeMD5      uint16 = 4 // MD5 (16 bytes)
	HashTypeSHA3_256 uint16 = 5 // SHA3-256 (32 bytes)
	HashTypeFNV1a128 uint16 = 6 // FNV-1a 128 bit (16 bytes)
	HashTypeCRC64    uint16 = 7 // CRC-64 ECMA (8 bytes)
	HashTypeBLAKE3   uint16 = 8 // BLAKE3 (32 bytes)
	HashTypeMurmur3  uint16 = 9 // MurmurHash3 x64 128 bit (16 bytes)
)

// Hash size constants
const (
	HashSizeSHA1     = 20
	HashSizeSHA256   = 32
	HashSizeSHA512   = 64
	HashSizeMD5      = 16
	HashSizeSHA3_256 = 32
	HashSizeFNV1a128 = 16
	HashSizeCRC64    = 8
	HashSizeBLAKE3   = 32
	HashSizeMurmur3  = 16
)

// Defaults shared by the library, config files and the command line.
const (
	DefaultHashAlgorithm = "sha256"
	FastHashAlgorithm    = "md5"
	DefaultHashBuffer    = "2M"
	DefaultRoot          = "./"
	DefaultSeparator     = "\n"
	DefaultOutputFormat  = "human"
	DefaultStoreShards   = 64

	MaxHashWorkers   = 256
	hashJobQueueSize = 100
	skiplistLevels   = 16
)

// Debug flag names accepted by SetDebugFlags
const (
	DebugScan      = "scan"
	DebugHash      = "hash"
	DebugStore     = "store"
	DebugAggregate = "aggregate"
	DebugWatch     = "watch"
)

// EnvPrefix is the environment variable prefix read by LoadEnvSettings
const EnvPrefix = "DUPEHASH"
