package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sanjuxAI/Data-Migration-Console/internal/database"
	"github.com/sanjuxAI/Data-Migration-Console/internal/progress"
	"github.com/sanjuxAI/Data-Migration-Console/internal/runlog"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "ora2mssql",
		Short: "Oracle to SQL Server migration tool",
		Long: `A database migration tool that runs a read-only query against an Oracle
database, creates a matching table on SQL Server if needed, and bulk-loads
the fetched rows into it.`,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Fetch Oracle query results into a SQL Server table",
		Long: `Execute the query against Oracle, infer the destination schema from the
result metadata, create the destination table if it does not exist, and
insert the rows in committed batches.`,
		RunE: runMigrate,
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate connections and configuration",
		Long: `Test both database connections and the configuration settings
without performing any migration.`,
		RunE: runValidate,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Oracle to SQL Server migrator v1.0")
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ora2mssql.yaml)")

	// Oracle connection flags
	rootCmd.PersistentFlags().String("oracle-host", "localhost", "Oracle host")
	rootCmd.PersistentFlags().Int("oracle-port", 1521, "Oracle port")
	rootCmd.PersistentFlags().String("oracle-service", "", "Oracle service identifier (SID)")
	rootCmd.PersistentFlags().String("oracle-user", "", "Oracle user")
	rootCmd.PersistentFlags().String("oracle-password", "", "Oracle password")

	// SQL Server connection flags
	rootCmd.PersistentFlags().String("sql-server", "", "SQL Server host")
	rootCmd.PersistentFlags().String("sql-database", "", "SQL Server database name")
	rootCmd.PersistentFlags().String("sql-user", "", "SQL Server user")
	rootCmd.PersistentFlags().String("sql-password", "", "SQL Server password")
	rootCmd.PersistentFlags().String("sql-driver", "ODBC Driver 17 for SQL Server", "client driver name reported to the server")
	rootCmd.PersistentFlags().String("sql-encrypt", "true", "encrypt the SQL Server connection")
	rootCmd.PersistentFlags().String("sql-trust-cert", "true", "trust the server certificate")

	// SSH tunnel flags
	rootCmd.PersistentFlags().String("sshkey", "", "Path to SSH private key file")
	rootCmd.PersistentFlags().String("sshuser", "", "SSH user")
	rootCmd.PersistentFlags().String("sshhost", "", "SSH host")
	rootCmd.PersistentFlags().Int("sshport", 22, "SSH port")

	// Migrate command specific flags
	migrateCmd.Flags().String("schema", database.DefaultSchema, "destination schema name")
	migrateCmd.Flags().String("table", "", "destination table name (or schema.table)")
	migrateCmd.Flags().String("query", "", "query to run against Oracle")
	migrateCmd.Flags().String("query-file", "", "file containing the query to run")
	migrateCmd.Flags().Bool("save-csv", false, "save the fetched rows to <table>_fetched_data.csv")
	migrateCmd.MarkFlagRequired("table")

	// Add commands
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all flags to viper
	viper.BindPFlags(rootCmd.PersistentFlags())
	viper.BindPFlags(migrateCmd.Flags())

	// Connection credentials come from the environment (or .env); these are
	// the variable names the tool has always used.
	viper.BindEnv("oracle-user", "ORACLE_USERNAME")
	viper.BindEnv("oracle-password", "ORACLE_PASSWORD")
	viper.BindEnv("oracle-host", "ORACLE_HOSTNAME")
	viper.BindEnv("oracle-port", "ORACLE_PORT")
	viper.BindEnv("oracle-service", "ORACLE_SID")
	viper.BindEnv("sql-server", "SQL_SERVER")
	viper.BindEnv("sql-database", "SQL_DATABASE")
	viper.BindEnv("sql-user", "SQL_USERNAME")
	viper.BindEnv("sql-password", "SQL_PASSWORD")
	viper.BindEnv("sql-driver", "SQL_DRIVER")
	viper.BindEnv("sql-encrypt", "SQL_ENCRYPT")
	viper.BindEnv("sql-trust-cert", "SQL_TRUST_CERT")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".ora2mssql")
	}

	viper.SetEnvPrefix("ORA2MSSQL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func getConfig() database.Config {
	return database.Config{
		OracleUser:     viper.GetString("oracle-user"),
		OraclePassword: viper.GetString("oracle-password"),
		OracleHost:     viper.GetString("oracle-host"),
		OraclePort:     viper.GetInt("oracle-port"),
		OracleService:  viper.GetString("oracle-service"),
		SQLServer:      viper.GetString("sql-server"),
		SQLDatabase:    viper.GetString("sql-database"),
		SQLUser:        viper.GetString("sql-user"),
		SQLPassword:    viper.GetString("sql-password"),
		SQLDriver:      viper.GetString("sql-driver"),
		SQLEncrypt:     viper.GetString("sql-encrypt"),
		SQLTrustCert:   viper.GetString("sql-trust-cert"),
		SSHKey:         viper.GetString("sshkey"),
		SSHUser:        viper.GetString("sshuser"),
		SSHHost:        viper.GetString("sshhost"),
		SSHPort:        viper.GetInt("sshport"),
	}
}

// resolveQuery returns the query text from --query or --query-file. The file
// contents are read into memory up front; the query only ever travels as a
// plain argument from here on.
func resolveQuery() (string, error) {
	if q := viper.GetString("query"); strings.TrimSpace(q) != "" {
		return q, nil
	}
	if path := viper.GetString("query-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read query file: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", fmt.Errorf("query file %s is empty", path)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("either --query or --query-file is required")
}

// resolveTarget combines --schema and --table, honoring a schema-qualified
// --table value.
func resolveTarget() database.TargetIdentifier {
	table := viper.GetString("table")
	if strings.Contains(table, ".") {
		return database.ParseTargetIdentifier(table)
	}
	schema := viper.GetString("schema")
	if schema == "" {
		schema = database.DefaultSchema
	}
	return database.TargetIdentifier{Schema: schema, Table: table}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	target := resolveTarget()
	saveCSV := viper.GetBool("save-csv")

	query, err := resolveQuery()
	if err != nil {
		return err
	}

	log, err := runlog.New(runlog.DefaultPath, nil)
	if err != nil {
		return err
	}
	defer log.Close()

	// The pipeline runs on its own goroutine; this one only renders events
	// until the channel closes.
	events := make(chan progress.Event, 16)
	sink := func(e progress.Event) { events <- e }

	migrator, err := database.NewMigrator(cfg, log, sink)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	type outcome struct {
		report *database.RunReport
		err    error
	}
	result := make(chan outcome, 1)

	go func() {
		defer close(events)
		_, report, err := migrator.Run(context.Background(), target, query, saveCSV)
		result <- outcome{report: report, err: err}
	}()

	renderEvents(events)

	out := <-result
	if out.err != nil {
		return out.err
	}
	if out.report.Status == database.StatusPartialLoad {
		return fmt.Errorf("partial load: %d of %d rows committed: %w",
			out.report.InsertedRows, out.report.FetchedRows, out.report.LoadErr)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := getConfig()

	log, err := runlog.New(runlog.DefaultPath, nil)
	if err != nil {
		return err
	}
	defer log.Close()

	if err := database.Validate(cfg, log); err != nil {
		return err
	}

	fmt.Println("Configuration is valid and both databases are accessible")
	return nil
}
