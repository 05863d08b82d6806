package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/partscope/partscope/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `                  _
 _ __   __ _ _ __| |_ ___  ___ ___  _ __   ___
| '_ \ / _' | '__| __/ __|/ __/ _ \| '_ \ / _ \
| |_) | (_| | |  | |_\__ \ (_| (_) | |_) |  __/
| .__/ \__,_|_|   \__|___/\___\___/| .__/ \___|
|_|                                |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "partscope",
	Short: "Compare part offers across suppliers.",
	Long: LOGO + `partscope turns the raw answers of many parts suppliers into one ranked list of
comparable offers: prices, stock, delivery dates and brand checks side by side.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.partscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringP("registry", "r", "", "Source registry YAML file (built-in sources only when empty)")
	rootCmd.PersistentFlags().String("timezone", "+03:00", "Business timezone for delivery dates (offset like +03:00 or an IANA name)")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of a table")

	viper.BindPFlag("registry", rootCmd.PersistentFlags().Lookup("registry"))
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("registry", "")
	viper.SetDefault("timezone", "+03:00")
	viper.SetDefault("search.concurrency", 5)
	viper.SetDefault("search.timeout", "10s")
	viper.SetDefault("search.captures", "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".partscope")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("partscope")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.partscope.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				utils.Log.Debugf("Could not create config file: %s", err)
			}
		} else {
			fmt.Printf("Error reading config file: %s\n", err)
			os.Exit(1)
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
