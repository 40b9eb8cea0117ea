package winepoll

// driverMask is the AFD-level event bitset a poll request watches for and
// reports back. The numeric values match \Device\Afd's IOCTL_AFD_POLL
// handles[0].Events bits (AFD_POLL_*); they are plain constants, not a
// Windows API surface, so this file carries no build tag — only the actual
// issuance of the ioctl (afd_windows.go) needs golang.org/x/sys/windows.
type driverMask uint32

const (
	afdReceive          driverMask = 0x0001
	afdReceiveExpedited driverMask = 0x0002
	afdSend             driverMask = 0x0004
	afdDisconnect       driverMask = 0x0008
	afdAbort            driverMask = 0x0010
	afdLocalClose       driverMask = 0x0020
	afdConnect          driverMask = 0x0040
	afdAccept           driverMask = 0x0080
	afdConnectFail      driverMask = 0x0100
)

// afdMaskForEvents computes the driver mask to request for a registration's
// currently-registered readiness mask, per spec.md §4.2:
//
//   - ABORT | CONNECT_FAIL | LOCAL_CLOSE are always requested;
//   - RECEIVE | ACCEPT for In/RDNorm;
//   - RECEIVE_EXPEDITED for RDBand;
//   - SEND | CONNECT for Out/WRNorm/RDBand (yes, RDBand folds into the
//     write-side request too — this mirrors original_source/src/epoll.c's
//     epoll__submit_poll_op exactly, including that apparent asymmetry).
func afdMaskForEvents(mask EventMask) driverMask {
	afd := afdAbort | afdConnectFail | afdLocalClose
	if mask&(In|RDNorm) != 0 {
		afd |= afdReceive | afdAccept
	}
	if mask&RDBand != 0 {
		afd |= afdReceiveExpedited
	}
	if mask&(Out|WRNorm|RDBand) != 0 {
		afd |= afdSend | afdConnect
	}
	return afd
}

// readinessForAFD translates a set of reported AFD driver events back into
// the portable readiness bitset, per spec.md §4.3 step 6.
func readinessForAFD(afd driverMask) EventMask {
	var m EventMask
	if afd&(afdReceive|afdAccept) != 0 {
		m |= In | RDNorm
	}
	if afd&afdReceiveExpedited != 0 {
		m |= In | RDBand
	}
	if afd&afdSend != 0 {
		m |= Out | WRNorm | WRBand
	}
	if afd&afdDisconnect != 0 && afd&afdAbort == 0 {
		m |= RDHup | In | RDNorm | RDBand
	}
	if afd&afdAbort != 0 {
		m |= Hup | Err
	}
	if afd&afdConnect != 0 {
		m |= Out | WRNorm | WRBand
	}
	if afd&afdConnectFail != 0 {
		m |= Err
	}
	return m
}
