package outputs

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

var postgresClusterKind = model.ResourceKind{
	Group:    "postgres-operator.crunchydata.com",
	Version:  "v1beta1",
	Resource: "postgresclusters",
}

const (
	labelPGOCluster = "postgres-operator.crunchydata.com/cluster"
	labelPGORole    = "postgres-operator.crunchydata.com/role"
	labelPGOUser    = "postgres-operator.crunchydata.com/pguser"
	pgoRolePGUser   = "pguser"
)

// pgURIs are the connection strings of one pguser secret.
type pgURIs struct {
	URI              string
	JdbcURI          string
	PgBouncerURI     string
	PgBouncerJdbcURI string
}

// withDatabase rewrites every URI to target db instead of from.
func (p pgURIs) withDatabase(from, db string) pgURIs {
	return pgURIs{
		URI:              swapDatabase(p.URI, from, db),
		JdbcURI:          swapDatabase(p.JdbcURI, from, db),
		PgBouncerURI:     swapDatabase(p.PgBouncerURI, from, db),
		PgBouncerJdbcURI: swapDatabase(p.PgBouncerJdbcURI, from, db),
	}
}

// swapDatabase replaces the "/<from>" path segment that ends uri or precedes
// its query. URIs without that segment are returned unchanged.
func swapDatabase(uri, from, to string) string {
	if uri == "" || from == "" {
		return uri
	}
	i := strings.LastIndex(uri, "/"+from)
	if i < 0 {
		return uri
	}
	end := i + 1 + len(from)
	if end != len(uri) && uri[end] != '?' {
		return uri
	}
	return uri[:i+1] + to + uri[end:]
}

// declaredDatabases maps each user of a postgrescluster spec to its databases.
func declaredDatabases(cluster map[string]any) map[string][]string {
	out := map[string][]string{}
	users, _ := values.LookupList(cluster, "spec", "users")
	for _, raw := range users {
		u, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := u["name"].(string)
		dbs, _ := values.LookupList(u, "databases")
		for _, db := range dbs {
			if s, ok := db.(string); ok && s != "" {
				out[name] = append(out[name], s)
			}
		}
	}
	return out
}

func readPostgres(ctx context.Context, u *UseCase, r *readRequest) (any, error) {
	sel := r.selector()
	clusters, err := u.Discovery.CustomResources(ctx, r.Namespace, postgresClusterKind, sel)
	if err != nil {
		return nil, fmt.Errorf("list postgresclusters: %w", err)
	}
	switch len(clusters) {
	case 0:
		return nil, fmt.Errorf("%w: no postgrescluster matches %v", model.ErrNotFound, sel)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d postgresclusters match %v", model.ErrAmbiguousDiscovery, len(clusters), sel)
	}
	name, _ := values.LookupString(clusters[0], "metadata", "name")
	if name == "" {
		return nil, fmt.Errorf("postgrescluster without metadata.name in %s", r.Namespace)
	}
	declared := declaredDatabases(clusters[0])

	secrets, err := u.Discovery.Secrets(ctx, r.Namespace, map[string]string{
		labelPGOCluster: name,
		labelPGORole:    pgoRolePGUser,
	})
	if err != nil {
		return nil, fmt.Errorf("list pguser secrets: %w", err)
	}
	sort.Slice(secrets, func(i, j int) bool { return secrets[i].Name < secrets[j].Name })

	out := &schema.PostgresOutputs{PostgresUsers: schema.PostgresUsers{Users: []model.CrunchyPostgresUserCredentials{}}}
	for _, s := range secrets {
		user := pgUserName(s)
		creds, err := u.userCredentials(ctx, r.AppID, user, s, declared[user])
		if err != nil {
			return nil, fmt.Errorf("pguser secret %s: %w", s.Name, err)
		}
		out.PostgresUsers.Users = append(out.PostgresUsers.Users, creds...)
	}
	return out, nil
}

func pgUserName(s model.DiscoveredSecret) string {
	if u := string(s.Data["user"]); u != "" {
		return u
	}
	return s.Labels[labelPGOUser]
}

func atoiOrZero(b []byte) int {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0
	}
	return n
}

// userCredentials mints the secrets of one pguser and returns an entry for
// its default database followed by one entry per other declared database.
func (u *UseCase) userCredentials(ctx context.Context, appID, user string, s model.DiscoveredSecret, dbs []string) ([]model.CrunchyPostgresUserCredentials, error) {
	if user == "" {
		return nil, fmt.Errorf("no user name")
	}
	password := string(s.Data["password"])
	if password == "" {
		return nil, fmt.Errorf("user %s: no password", user)
	}
	prefix := "postgres-" + user
	pwRef, err := u.mint(ctx, appID, prefix+"-password", password)
	if err != nil {
		return nil, err
	}
	base := model.CrunchyPostgresUserCredentials{
		User:          user,
		Password:      pwRef,
		Host:          string(s.Data["host"]),
		Port:          atoiOrZero(s.Data["port"]),
		PgBouncerHost: string(s.Data["pgbouncer-host"]),
		PgBouncerPort: atoiOrZero(s.Data["pgbouncer-port"]),
		DBName:        string(s.Data["dbname"]),
	}
	uris := pgURIs{
		URI:              string(s.Data["uri"]),
		JdbcURI:          string(s.Data["jdbc-uri"]),
		PgBouncerURI:     string(s.Data["pgbouncer-uri"]),
		PgBouncerJdbcURI: string(s.Data["pgbouncer-jdbc-uri"]),
	}
	first := base
	if err := u.mintURIs(ctx, appID, prefix, &first, uris); err != nil {
		return nil, err
	}
	out := []model.CrunchyPostgresUserCredentials{first}
	for _, db := range dbs {
		if db == base.DBName {
			continue
		}
		extra := base
		extra.DBName = db
		if err := u.mintURIs(ctx, appID, prefix+"-"+db, &extra, uris.withDatabase(base.DBName, db)); err != nil {
			return nil, err
		}
		out = append(out, extra)
	}
	return out, nil
}

func (u *UseCase) mintURIs(ctx context.Context, appID, prefix string, c *model.CrunchyPostgresUserCredentials, uris pgURIs) error {
	fields := []struct {
		suffix string
		value  string
		dst    **model.SecretRef
	}{
		{"-uri", uris.URI, &c.URI},
		{"-jdbc-uri", uris.JdbcURI, &c.JdbcURI},
		{"-pgbouncer-uri", uris.PgBouncerURI, &c.PgBouncerURI},
		{"-pgbouncer-jdbc-uri", uris.PgBouncerJdbcURI, &c.PgBouncerJdbcURI},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		ref, err := u.mint(ctx, appID, prefix+f.suffix, f.value)
		if err != nil {
			return err
		}
		*f.dst = &ref
	}
	if c.URI != nil {
		c.PostgresURI = &model.PostgresURI{URI: c.URI}
	}
	return nil
}
