// Package cli assembles the bot from configuration for the shopbot command:
// store selection, encryption, catalog, logging and the console session.
package cli
