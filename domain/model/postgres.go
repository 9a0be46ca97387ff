package model

// ReservedPostgresUser is managed by the operator and may not be declared by apps.
const ReservedPostgresUser = "postgres"

// PostgresURI wraps the plain connection URI of a user.
type PostgresURI struct {
	URI *SecretRef `json:"uri"`
}

// CrunchyPostgresUserCredentials describes one (user, database) pair of a managed
// Postgres cluster. Sensitive fields are SecretRefs.
type CrunchyPostgresUserCredentials struct {
	User             string       `json:"user"`
	Password         SecretRef    `json:"password"`
	Host             string       `json:"host"`
	Port             int          `json:"port"`
	PgBouncerHost    string       `json:"pgbouncer_host"`
	PgBouncerPort    int          `json:"pgbouncer_port"`
	DBName           string       `json:"dbname,omitempty"`
	JdbcURI          *SecretRef   `json:"jdbc_uri,omitempty"`
	PgBouncerJdbcURI *SecretRef   `json:"pgbouncer_jdbc_uri,omitempty"`
	PgBouncerURI     *SecretRef   `json:"pgbouncer_uri,omitempty"`
	URI              *SecretRef   `json:"uri,omitempty"`
	PostgresURI      *PostgresURI `json:"postgres_uri,omitempty"`
}

// Validate checks credentials handed to an app as input.
func (c *CrunchyPostgresUserCredentials) Validate() error {
	if c.User == "" {
		return Required("user")
	}
	if c.Password.Key == "" {
		return Required("password.key")
	}
	if c.PgBouncerHost == "" && c.Host == "" {
		return Required("pgbouncer_host")
	}
	return nil
}

// ConnectHost returns the pgbouncer address when present, else the direct one.
func (c *CrunchyPostgresUserCredentials) ConnectHost() (string, int) {
	if c.PgBouncerHost != "" {
		return c.PgBouncerHost, c.PgBouncerPort
	}
	return c.Host, c.Port
}
