package exitcode

const (
	Success      = 0
	UsageError   = 1
	ConfigError  = 2
	StorageError = 3
	DBConnError  = 4
	PublishError = 5
)
