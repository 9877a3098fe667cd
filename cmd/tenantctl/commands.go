package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/diwise/tenant-store/pkg/store/postgres"
	"github.com/diwise/tenant-store/pkg/tenancy"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const (
	tenantFlag     = "tenant"
	tenantKeyFlag  = "tenant-key"
	tenantTypeFlag = "tenant-type"
	collectionFlag = "collection"
	limitFlag      = "limit"
	confirmFlag    = "confirm"

	defaultTenantType = string(document.TypeIdentifier)
)

var tenantFlags = map[string]cobraflags.Flag{
	tenantFlag: &cobraflags.StringFlag{
		Name:  tenantFlag,
		Value: "",
		Usage: "Tenant to operate on (required)",
	},
	tenantKeyFlag: &cobraflags.StringFlag{
		Name:  tenantKeyFlag,
		Value: "tenantId",
		Usage: "Document field holding the tenant id",
	},
	tenantTypeFlag: &cobraflags.StringFlag{
		Name:  tenantTypeFlag,
		Value: defaultTenantType,
		Usage: "Type of the tenant id (identifier, string, number, objectid). Integral identifiers match numeric tenant ids",
	},
	collectionFlag: &cobraflags.StringFlag{
		Name:  collectionFlag,
		Value: "",
		Usage: "Restrict the command to a single collection",
	},
}

var listFlags = map[string]cobraflags.Flag{
	limitFlag: &cobraflags.StringFlag{
		Name:  limitFlag,
		Value: "100",
		Usage: "Maximum number of documents to list per collection",
	},
}

var purgeFlags = map[string]cobraflags.Flag{
	confirmFlag: &cobraflags.StringFlag{
		Name:  confirmFlag,
		Value: "",
		Usage: "Repeat the tenant id here to confirm that its documents should be deleted",
	},
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Inspect and clean up tenant documents in a PostgreSQL backed tenant store",
		Long: `Inspect and clean up the documents of a single tenant in a PostgreSQL backed tenant store.

The database connection is configured through the POSTGRES_HOST, POSTGRES_PORT,
POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DBNAME and POSTGRES_SSLMODE
environment variables.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newCountCommand(), newListCommand(), newPurgeCommand())

	return rootCmd
}

func newCountCommand() *cobra.Command {
	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Count the documents of a tenant per collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, t target) error {
				return count(ctx, t, cmd.OutOrStdout())
			})
		},
	}

	cobraflags.RegisterMap(countCmd, tenantFlags)
	return countCmd
}

func newListCommand() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the documents of a tenant as JSON lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := strconv.ParseInt(listFlags[limitFlag].GetString(), 10, 64)
			if err != nil || limit < 0 {
				return fmt.Errorf("--%s must be a non negative integer", limitFlag)
			}

			return withStore(cmd, func(ctx context.Context, t target) error {
				return list(ctx, t, limit, cmd.OutOrStdout())
			})
		},
	}

	cobraflags.RegisterMap(listCmd, tenantFlags)
	cobraflags.RegisterMap(listCmd, listFlags)
	return listCmd
}

func newPurgeCommand() *cobra.Command {
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every document of a tenant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant := tenantFlags[tenantFlag].GetString()
			if purgeFlags[confirmFlag].GetString() != tenant {
				return fmt.Errorf("refusing to purge, --%s must equal the tenant id", confirmFlag)
			}

			return withStore(cmd, func(ctx context.Context, t target) error {
				return purge(ctx, t, cmd.OutOrStdout())
			})
		},
	}

	cobraflags.RegisterMap(purgeCmd, tenantFlags)
	cobraflags.RegisterMap(purgeCmd, purgeFlags)
	return purgeCmd
}

// target is the tenant bound set of collections a command operates on
type target struct {
	collections []store.Collection
	binding     tenancy.Binding
}

func (t target) filter() document.Filter {
	return t.binding.Filter(nil)
}

func withStore(cmd *cobra.Command, fn func(context.Context, target) error) error {
	ctx := cmd.Context()

	binding, err := bindTenant()
	if err != nil {
		return err
	}

	driver, err := postgres.Connect(ctx, postgres.LoadConfiguration(ctx))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer driver.Close(ctx)

	names := []string{}
	if c := tenantFlags[collectionFlag].GetString(); c != "" {
		names = append(names, c)
	} else {
		names, err = driver.Collections(ctx)
		if err != nil {
			return fmt.Errorf("failed to list collections: %w", err)
		}
	}

	t := target{binding: binding}
	for _, name := range names {
		t.collections = append(t.collections, driver.Collection(name))
	}

	return fn(ctx, t)
}

func bindTenant() (tenancy.Binding, error) {
	return newBinding(
		tenantFlags[tenantFlag].GetString(),
		tenantFlags[tenantKeyFlag].GetString(),
		tenantFlags[tenantTypeFlag].GetString(),
	)
}

// newBinding binds tenant, cast to typ, to the tenant field key. Identifiers
// given as integers bind as numbers, the way Go callers usually pass them.
func newBinding(tenant, key, typ string) (tenancy.Binding, error) {
	if tenant == "" {
		return tenancy.Binding{}, fmt.Errorf("--%s is required", tenantFlag)
	}

	t, err := document.ParseFieldType(typ)
	if err != nil {
		return tenancy.Binding{}, err
	}

	value, err := t.Cast(tenant)
	if err != nil {
		return tenancy.Binding{}, fmt.Errorf("invalid tenant id: %w", err)
	}

	if t == document.TypeIdentifier {
		if i, err := strconv.ParseInt(tenant, 10, 64); err == nil {
			value = i
		}
	}

	cfg := tenancy.New(
		tenancy.TenantIDKey(key),
		tenancy.TenantIDType(t),
	)

	return cfg.Bind(value), nil
}

func count(ctx context.Context, t target, out io.Writer) error {
	var total int64

	for _, c := range t.collections {
		n, err := c.Count(ctx, t.filter())
		if err != nil {
			return fmt.Errorf("failed to count documents in %s: %w", c.Name(), err)
		}

		fmt.Fprintf(out, "%s\t%d\n", c.Name(), n)
		total += n
	}

	fmt.Fprintf(out, "total\t%d\n", total)

	return nil
}

func list(ctx context.Context, t target, limit int64, out io.Writer) error {
	enc := json.NewEncoder(out)

	for _, c := range t.collections {
		docs, err := c.Find(ctx, t.filter(), store.FindOptions{Limit: limit})
		if err != nil {
			return fmt.Errorf("failed to list documents in %s: %w", c.Name(), err)
		}

		for _, doc := range docs {
			line := struct {
				Collection string            `json:"collection"`
				Document   document.Document `json:"document"`
			}{c.Name(), doc}

			if err = enc.Encode(line); err != nil {
				return err
			}
		}
	}

	return nil
}

func purge(ctx context.Context, t target, out io.Writer) error {
	logger := logging.GetFromContext(ctx)

	var total int64

	for _, c := range t.collections {
		n, err := c.DeleteMany(ctx, t.filter())
		if err != nil {
			return fmt.Errorf("failed to purge documents in %s: %w", c.Name(), err)
		}

		logger.Info("purged documents", slog.String("collection", c.Name()), slog.Int64("count", n))
		fmt.Fprintf(out, "%s\t%d\n", c.Name(), n)
		total += n
	}

	fmt.Fprintf(out, "total\t%d\n", total)

	return nil
}
