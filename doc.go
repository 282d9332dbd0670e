// Package main provides the entry point for the StaffDesk employee portal
// service. It runs a web server using the Fiber framework that fronts the
// company's HR backend: it resolves and caches signed-in identities, builds
// role- and permission-gated navigation, aggregates notifications, and fans
// out realtime events (chat messages, alerts, permission changes) to the
// single-page application.
package main
