package devenv

// KrossTestConfig is read from dev/.state/kross_config.json5 by the live
// tests, they are skipped when the file does not exist.
type KrossTestConfig struct {
	Tenant   string `json:"tenant"`
	Username string `json:"username"`
	Password string `json:"password"`
}
