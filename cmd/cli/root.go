package cli

// root.go — the shadowstake command tree's shared middleware, grounded
// on the teacher's cmd/cli/stake_penalty.go spInitMiddleware: a
// sync.Once-guarded bootstrap that loads .env, sets the logrus level
// from LOG_LEVEL, opens the ledger at LEDGER_PATH, and wires a single
// package-level engine every subcommand reaches through.

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"shadowstake/core"
)

var (
	rootOnce   sync.Once
	rootLogger = logrus.StandardLogger()
	engine     *core.Engine
	rootErr    error
)

func initMiddleware(cmd *cobra.Command, _ []string) error {
	rootOnce.Do(func() {
		_ = godotenv.Load()
		lvl := os.Getenv("LOG_LEVEL")
		if lvl == "" {
			lvl = "info"
		}
		l, e := logrus.ParseLevel(lvl)
		if e != nil {
			rootErr = e
			return
		}
		rootLogger.SetLevel(l)

		path := os.Getenv("LEDGER_PATH")
		if path == "" {
			path = "./shadowstake-data"
		}
		led, e := core.OpenLedger(path)
		if e != nil {
			rootErr = e
			return
		}
		engine = core.NewEngine(led, rootLogger)
	})
	return rootErr
}

// Root builds the shadowstake cobra command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:               "shadowstake",
		Short:             "Deterministic storage-staking accounting engine",
		PersistentPreRunE: initMiddleware,
	}
	addContextFlags(root)
	root.AddCommand(configCmd())
	root.AddCommand(userCmd())
	root.AddCommand(reservationCmd())
	root.AddCommand(crankCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(csamCmd())
	root.AddCommand(faucetCmd())
	return root
}

