package main

import (
	"flag"
)

// AppFlags holds the parsed command line flags
type AppFlags struct {
	RootSitemapURL   string
	GlobalConfigFile string
}

// ParseFlags parses the command line flags, consolidating aliases
func ParseFlags() AppFlags {
	rootURL := flag.String("url", "", "Root sitemap index URL to check (overrides config file if set)")
	rootURLAlias := flag.String("u", "", "Alias for -url")

	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	flag.Parse()

	flags := AppFlags{}

	if *rootURL != "" {
		flags.RootSitemapURL = *rootURL
	} else if *rootURLAlias != "" {
		flags.RootSitemapURL = *rootURLAlias
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	return flags
}
