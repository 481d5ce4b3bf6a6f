// Package app provides the command executors of the yamusic CLI.
// Each executor authorizes a Yandex Music client with the configured credentials,
// wires the services it needs and reports the outcome through the logger.
package app
