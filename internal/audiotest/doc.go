// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides procedural sources for tests.
package audiotest
