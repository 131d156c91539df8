package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dupescan",
	Short: "Find duplicate and near-duplicate images",
	Long: `Dupescan locates duplicate images in a directory tree: exact
duplicates grouped by content digest, and near-duplicates grouped by
perceptual hash bit distance using one of three hash algorithms
(ahash, dhash, phash).`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
