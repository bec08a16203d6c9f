// Package obs bootstraps service observability.
package obs
