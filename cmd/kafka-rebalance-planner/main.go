package main

import (
	"log"
	"os"

	"github.com/jamiealquiza/envy"
	"github.com/spf13/cobra"

	"github.com/datto/kafka-rebalance/cmd/kafka-rebalance-planner/commands"
)

func main() {
	root := &cobra.Command{
		Use:   "kafka-rebalance-planner",
		Short: "Plans and optionally executes disk-balancing replica relocations",
	}

	root.AddCommand(commands.NewPlanCommand())
	root.AddCommand(commands.NewVisualizeCommand())

	envy.ParseCobra(root, "KRP")

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
