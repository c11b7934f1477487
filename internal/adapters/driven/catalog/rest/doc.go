// Package rest implements the catalog source and patient directory
// against the clinic HTTP API:
//
//	GET /api/services/categories
//	GET /api/services
//	GET /api/patients/search?q=<query>
//
// Every request waits on a token-bucket limiter. Transport failures,
// non-2xx statuses and undecodable bodies are reported as
// *domain.NetworkError.
package rest
