// Package cmd implements the command-line interface for siteinsight.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/siteinsight/cmd/analyze"
	"github.com/jonesrussell/siteinsight/cmd/httpd"
	"github.com/jonesrussell/siteinsight/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug mode for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "siteinsight",
		Short: "Business-model analysis for websites",
		Long:  `Fetches a website, distills its content, and scores its business model with a reasoning model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := config.InitializeViper(cfgFile); err != nil {
		return fmt.Errorf("initialize configuration: %w", err)
	}

	if debug {
		viper.Set("app.debug", true)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("siteinsight version %s\n", viper.GetString("app.version"))
		},
	})

	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(analyze.Command())
}
