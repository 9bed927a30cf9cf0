package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultConfigFile is looked up in the project path when no file is given
	DefaultConfigFile = "conventest.yaml"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultStorage is the default report storage backend
	DefaultStorage = "json"
	// DefaultBadgerDir is the default badger store directory under the output directory
	DefaultBadgerDir = "reports.badger"
	// DefaultLifecycle is the default instantiation policy
	DefaultLifecycle = "per-class"
	// DefaultWorkers is the default number of worker processes
	DefaultWorkers = 1

	// DefaultArchiveHost is the default MySQL host
	DefaultArchiveHost = "127.0.0.1"
	// DefaultArchivePort is the default MySQL port
	DefaultArchivePort = "3306"
	// DefaultArchiveUser is the default MySQL user
	DefaultArchiveUser = "root"
	// DefaultArchiveDatabase is the default archive database name
	DefaultArchiveDatabase = "conventest"
)
