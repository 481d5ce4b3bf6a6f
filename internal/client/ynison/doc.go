// Package ynison implements the Ynison realtime session of Yandex Music:
// a persistent WebSocket that negotiates device identity through the
// Sec-WebSocket-Protocol header, reassembles fragmented messages and
// broadcasts them to subscribers until the receive loop is stopped.
package ynison
