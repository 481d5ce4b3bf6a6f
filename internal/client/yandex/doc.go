// Package yandex provides a session client for the Yandex Music web handlers.
// It authorizes through the passport form or an OAuth token, builds requests
// from templated endpoints, decodes the loosely typed JSON payloads into
// entities and derives signed download links for track storage.
package yandex
