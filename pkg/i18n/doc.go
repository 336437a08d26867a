// Package i18n resolves the short user-facing messages the client shows for
// auth and QR screen outcomes.
//
// A Translator is built once from a YAML catalog mapping language codes to
// nested message keys:
//
//	en:
//	  auth:
//	    login_failed: "Login failed"
//	es:
//	  auth:
//	    login_failed: "Error al iniciar sesión"
//
// Lookup falls back from the requested language to the default language and
// finally to the key itself (or a caller-supplied default via Td), so a
// missing translation never surfaces as an empty string to the user.
package i18n
