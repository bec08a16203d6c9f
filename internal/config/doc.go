// Package config loads stackguard-api settings with viper.
package config
