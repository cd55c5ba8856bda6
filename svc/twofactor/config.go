package twofactor

// Lockout backends accepted by Config.LockoutBackend.
const (
	LockoutBackendStorage = "storage"
	LockoutBackendRedis   = "redis"
)

// Config is the environment configuration of the two-factor service.
type Config struct {
	Issuer          string `env:"TWOFACTOR_ISSUER" envDefault:"LexCase"`
	BackupCodeCount int    `env:"TWOFACTOR_BACKUP_CODE_COUNT" envDefault:"10"`
	MaxAttempts     int    `env:"TWOFACTOR_MAX_ATTEMPTS" envDefault:"5"`
	QRSize          int    `env:"TWOFACTOR_QR_SIZE" envDefault:"256"`
	LockoutBackend  string `env:"TWOFACTOR_LOCKOUT_BACKEND" envDefault:"storage"`
}

// Options turns cfg into service options. The lockout backend is not covered
// because it needs a client; see WithLockoutCounter.
func (cfg Config) Options() []Option {
	return []Option{
		WithIssuer(cfg.Issuer),
		WithBackupCodeCount(cfg.BackupCodeCount),
		WithMaxAttempts(cfg.MaxAttempts),
		WithImageSize(cfg.QRSize),
	}
}
