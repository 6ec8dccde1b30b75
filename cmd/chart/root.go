package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jyotish-lab/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "chart",
	Short:         "Vedic chart computation pipeline",
	Long:          "chart computes sidereal positions, divisional charts, six-fold strength, dasha timelines, panchanga, yogas and transits from birth data.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .jyotish.yaml)")
	pf.BoolP("verbose", "v", false, "debug logging")
	pf.String("ephemeris", "", "ephemeris mode: rpc, ws or fixture")
	pf.String("ephemeris-url", "", "ephemeris service endpoint")
	pf.String("fixture", "", "fixture file for fixture mode (.yaml or .toml)")
	pf.String("ayanamsa", "", "LAHIRI, RAMAN, KP, FAGAN_BRADLEY or TROPICAL")
	pf.String("house-system", "", "WHOLE_SIGN, PLACIDUS, EQUAL or PORPHYRY")
	pf.StringSlice("dasha-systems", nil, "VIMSHOTTARI, YOGINI, CHARA, NARAYANA")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address")

	_ = viper.BindPFlag("ephemeris.mode", pf.Lookup("ephemeris"))
	_ = viper.BindPFlag("ephemeris.url", pf.Lookup("ephemeris-url"))
	_ = viper.BindPFlag("ephemeris.fixture", pf.Lookup("fixture"))
	_ = viper.BindPFlag("chart.ayanamsa", pf.Lookup("ayanamsa"))
	_ = viper.BindPFlag("chart.house_system", pf.Lookup("house-system"))
	_ = viper.BindPFlag("chart.dasha_systems", pf.Lookup("dasha-systems"))
	_ = viper.BindPFlag("metrics_addr", pf.Lookup("metrics-addr"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".jyotish")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	config.BindEnv(viper.GetViper())

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
