package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// AddPersistent registers the flags every command accepts and binds them
// to the matching config keys.
func AddPersistent(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("db", "", "SQLite database path (default is $HOME/.mixsearch/mixsearch.db)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("region", "", "Phone region used to recognise numbers, e.g. US")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	viper.BindPFlag("database", pf.Lookup("db"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("search.phone_region", pf.Lookup("region"))
	viper.BindPFlag("metrics.addr", pf.Lookup("metrics-addr"))
}
