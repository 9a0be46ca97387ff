package schema

import (
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/naming"
)

const minPostgresInstanceSize = 1

// PostgresConfig sizes the database instances.
type PostgresConfig struct {
	PostgresVersion  string `json:"postgres_version,omitempty"`
	InstanceReplicas int    `json:"instance_replicas,omitempty"`
	InstanceSize     int    `json:"instance_size"` // GiB
}

func (c *PostgresConfig) Validate() error {
	if c.InstanceReplicas < 0 {
		return model.Invalid("instance_replicas", "must not be negative")
	}
	return minSize("instance_size", c.InstanceSize, minPostgresInstanceSize)
}

// PGBouncer configures the connection pooler.
type PGBouncer struct {
	Preset   string `json:"preset"`
	Replicas int    `json:"replicas,omitempty"`
}

// PostgresDBUser declares a role and the databases it owns. Without database
// names the role gets a database of its own name.
type PostgresDBUser struct {
	Name    string   `json:"name"`
	DBNames []string `json:"db_names,omitempty"`
}

// Databases returns DBNames or [Name].
func (u *PostgresDBUser) Databases() []string {
	if len(u.DBNames) == 0 {
		return []string{u.Name}
	}
	return u.DBNames
}

// PostgresBackup enables scheduled backups into a platform bucket.
type PostgresBackup struct {
	BucketID string `json:"bucket_id"`
}

// PostgresInputs deploys a managed Postgres cluster.
type PostgresInputs struct {
	Preset         string           `json:"preset"`
	PostgresConfig PostgresConfig   `json:"postgres_config"`
	PgBouncer      PGBouncer        `json:"pg_bouncer"`
	DBUsers        []PostgresDBUser `json:"db_users"`
	Backup         *PostgresBackup  `json:"backup,omitempty"`
}

func (*PostgresInputs) AppType() model.AppType { return model.AppTypePostgres }

func (in *PostgresInputs) Validate() error {
	if err := requirePreset("preset", in.Preset); err != nil {
		return err
	}
	if err := in.PostgresConfig.Validate(); err != nil {
		return model.WithPathPrefix("postgres_config", err)
	}
	if err := requirePreset("pg_bouncer.preset", in.PgBouncer.Preset); err != nil {
		return err
	}
	if len(in.DBUsers) == 0 {
		return model.Invalid("db_users", "at least one database user is required")
	}
	seen := map[string]bool{}
	for i, u := range in.DBUsers {
		p := model.IndexPath("db_users", i)
		if u.Name == model.ReservedPostgresUser {
			return model.Invalid(p+".name", "user %q is reserved", model.ReservedPostgresUser)
		}
		if err := naming.ValidateDBUserName(u.Name); err != nil {
			return model.Invalid(p+".name", "%v", err)
		}
		if seen[u.Name] {
			return model.Invalid(p+".name", "duplicate user %q", u.Name)
		}
		seen[u.Name] = true
		for j, db := range u.DBNames {
			if db == "" {
				return model.Required(model.IndexPath(p+".db_names", j))
			}
		}
	}
	if in.Backup != nil && in.Backup.BucketID == "" {
		return model.Required("backup.bucket_id")
	}
	return nil
}

// PostgresUsers lists credentials per (user, database).
type PostgresUsers struct {
	Users []model.CrunchyPostgresUserCredentials `json:"users"`
}

// PostgresOutputs describes a running managed Postgres.
type PostgresOutputs struct {
	PostgresUsers PostgresUsers `json:"postgres_users"`
}
