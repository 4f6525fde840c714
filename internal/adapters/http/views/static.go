package views

import _ "embed"

// StyleSheet is served at /static/site.css.
//
//go:embed site.css
var StyleSheet []byte
