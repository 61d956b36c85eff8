// Package fixhub exposes repair-guide data from the iFixit public API
// through a small service layer: free-text device search, guide retrieval
// normalized into a canonical schema, and optional AI-generated summaries.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., ifixit/, gemini/, cache/).
package fixhub
