// Package infra contains technical adapters such as the MQTT publisher,
// metrics exporters and Sentry reporting. These packages should depend only
// on the interfaces defined in the core packages.
package infra
