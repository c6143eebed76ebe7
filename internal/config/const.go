package config

import "time"

const (
	// TEXTDOMAIN is the gettext domain used by i18n.InitI18nDomain.
	TEXTDOMAIN = "authorityd"

	// DefaultSocket is the admin control-plane unix socket path.
	DefaultSocket = "/run/authorityd.sock"

	// DefaultServerIdleTimeout is how long the daemon waits with no
	// in-flight request before shutting down.
	DefaultServerIdleTimeout = 120 * time.Second

	// DefaultConfigPath is the default on-disk configuration file.
	DefaultConfigPath = "/etc/authorityd/authorityd.yaml"

	// DefaultCatalogPath is the default policy-catalog fixture path.
	DefaultCatalogPath = "/usr/share/authorityd/actions.yaml"

	// DefaultClientTimeout bounds how long authorityctl waits for a
	// daemon reply before giving up.
	DefaultClientTimeout = 30 * time.Second
)

// Version is the authorityctl/authorityd release version, set at build
// time with -ldflags.
var Version = "dev"

// DefaultRecordDirs are the run-time and persistent tiers the
// read-authorizations-1 helper merges (§6).
var DefaultRecordDirs = []string{
	"/run/authorityd/authorizations",
	"/var/lib/authorityd/authorizations",
}

// HelperPaths are the absolute paths to the four privileged helpers of §6.
type HelperPaths struct {
	ReadAuthorizations  string `yaml:"read_authorizations"`
	RevokeAuthorization string `yaml:"revoke_authorization"`
	ResolveExe          string `yaml:"resolve_exe"`
	Grant               string `yaml:"grant"`
}

// DefaultHelperPaths are the production helper locations.
var DefaultHelperPaths = HelperPaths{
	ReadAuthorizations:  "/usr/lib/authorityd/read-authorizations-1",
	RevokeAuthorization: "/usr/lib/authorityd/revoke-authorization-1",
	ResolveExe:          "/usr/lib/authorityd/resolve-exe-1",
	Grant:               "/usr/lib/authorityd/grant-1",
}
