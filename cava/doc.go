// Package cava contains Go bindings for libcava, the spectrum analysis core
// of the cava audio visualizer.
//
// The C side is declared in cavabind.h, a small header that describes only
// what these bindings call. The analysis plan is an incomplete C type and is
// only ever held by address.
//
// Ownership rules at this boundary:
//
//   - A Plan must not be executed by two goroutines at once. The wrappers
//     serialize calls with a mutex, so Destroy never runs while Execute is
//     in progress.
//   - No Execute may start before NewPlan returns or after Destroy begins.
//   - Records that libcava keeps a pointer to (audio_raw, audio_data,
//     config_params) are allocated in C memory and owned by their wrapper.
//     Slices passed to Execute are only borrowed for the duration of the call.
//
// Calling Destroy twice, or destroying a raw record that was never
// initialized, is outside libcava's contract. The wrappers turn those cases
// into no-ops or errors before any foreign call is made.
package cava
