// internal/status/constants.go
package status

// Station Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerStation is the fixed number of registers per test station.
const SlotsPerStation = 20

// ---- SLOT INDICES ----

// SlotVerdictCode holds the run state / final verdict.
const SlotVerdictCode = 0

// SlotPassMask holds one bit per channel (bit i = channel i passed).
const SlotPassMask = 1

// SlotRS485Detail holds the low 16 bits of the RS-485 sub-channel mask.
const SlotRS485Detail = 2

// SlotProgressPart holds the number of completed channels.
const SlotProgressPart = 3

// ---- RESERVED RANGE ----

// Slots 4..10 are reserved for future use.
const SlotReservedStart = 4
const SlotReservedEnd = 10

// ---- STATION NAME ----

// SlotStationNameStart is the first slot used for the station name.
// The name is always placed at the END of the status block.
const SlotStationNameStart = 11

// SlotStationNameSlots is the number of slots reserved for the station name.
const SlotStationNameSlots = 8

// SlotStationNameEnd is the last slot used for the station name (inclusive).
const SlotStationNameEnd = SlotStationNameStart + SlotStationNameSlots - 1

// ---- LIMITS ----

// StationNameMaxChars is the maximum number of ASCII characters stored for the station name.
const StationNameMaxChars = 16

// ---- VERDICT CODES ----

// VerdictIdle: no run since power-up.
const VerdictIdle uint16 = 0

// VerdictRunning: a run is in progress.
const VerdictRunning uint16 = 1

// VerdictSuccess: every channel passed.
const VerdictSuccess uint16 = 2

// VerdictFailed: at least one channel answered nack.
const VerdictFailed uint16 = 3

// VerdictTimedOut: a channel never answered; run aborted.
const VerdictTimedOut uint16 = 4

// VerdictCancelled: run aborted by the operator.
const VerdictCancelled uint16 = 5
