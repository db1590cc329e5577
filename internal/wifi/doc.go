// Package wifi implements the vendor-neutral Wi-Fi control layer.
//
// Every mutating or device-querying operation is serialized behind a single
// exclusive access gate; results cross the boundary in the abstracted
// security/role/power vocabulary, translated to and from the SimpleLink
// native enumerations. The HAL owns no connection state of its own: profile
// storage and connection bookkeeping live in the driver behind the
// simplelink.Driver contract.
package wifi
