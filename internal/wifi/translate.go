package wifi

import "github.com/wifi-control/whal/internal/simplelink"

// Pure, total mappings between the abstracted vocabulary and the SimpleLink
// native enumerations. Unmapped inputs come back as the respective
// unsupported/unknown sentinel; callers fail before issuing a firmware call.

// securityToNative maps an abstracted security type to the firmware value.
func securityToNative(s SecurityType) simplelink.Security {
	switch s {
	case SecurityOpen:
		return simplelink.SecOpen
	case SecurityWEP:
		return simplelink.SecWEP
	case SecurityWPA:
		return simplelink.SecWPA
	case SecurityWPA2:
		return simplelink.SecWPAWPA2
	default:
		return simplelink.SecUnknown
	}
}

// securityFromNative maps a firmware security value back to the abstracted
// vocabulary. The firmware's deprecated plain-WPA value is deliberately not
// mapped: it reads back as SecurityNotSupported, and WPA/WPA2-mixed reads
// back as SecurityWPA2, so the input-side SecurityWPA is never reproduced.
func securityFromNative(s simplelink.Security) SecurityType {
	switch s {
	case simplelink.SecOpen:
		return SecurityOpen
	case simplelink.SecWEP:
		return SecurityWEP
	case simplelink.SecWPAWPA2:
		return SecurityWPA2
	default:
		return SecurityNotSupported
	}
}

// modeToNative maps an abstracted device mode to the firmware role.
func modeToNative(m DeviceMode) simplelink.Role {
	switch m {
	case ModeStation:
		return simplelink.RoleStation
	case ModeAP:
		return simplelink.RoleAP
	case ModeP2P:
		return simplelink.RoleP2P
	default:
		return simplelink.RoleReserved
	}
}

// modeFromNative maps a firmware role back to the abstracted device mode.
func modeFromNative(r simplelink.Role) DeviceMode {
	switch r {
	case simplelink.RoleStation:
		return ModeStation
	case simplelink.RoleAP:
		return ModeAP
	case simplelink.RoleP2P:
		return ModeP2P
	default:
		return ModeNotSupported
	}
}

// pmToNative maps an abstracted power mode to the firmware policy. The
// second return is false for modes with no firmware equivalent.
func pmToNative(m PMMode) (simplelink.PowerPolicy, bool) {
	switch m {
	case PMNormal:
		return simplelink.PolicyNormal, true
	case PMLowPower:
		return simplelink.PolicyLowPower, true
	case PMAlwaysOn:
		return simplelink.PolicyAlwaysOn, true
	default:
		return 0, false
	}
}

// pmFromNative maps a firmware policy back to the abstracted power mode.
func pmFromNative(p simplelink.PowerPolicy) PMMode {
	switch p {
	case simplelink.PolicyNormal:
		return PMNormal
	case simplelink.PolicyLowPower:
		return PMLowPower
	case simplelink.PolicyAlwaysOn:
		return PMAlwaysOn
	default:
		return PMNotSupported
	}
}
