// Package server serves the render form to browsers.
//
// Each page load opens a WebSocket session at /ws. The session implements
// form.Controls on top of the socket, so every open page is driven by its
// own app.Controller running on the server. The same rendering pipeline is
// available without a session:
//
//	GET /api/families            catalog as JSON
//	GET /api/render?<form query>  image/svg+xml
//	GET /api/download?<form query> the same markup as an attachment
//
// The form query uses the keys the page mirrors into its URL
// (font-select, font-variant, input-text, input-size and so on).
package server
