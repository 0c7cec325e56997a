// Package profile holds the immutable, pre-selected configuration record
// threaded through every stage of the demodulator, so that no component
// ever branches on a profile name at call time.
package profile

import "time"

// Name identifies one of the enumerated OFDM/detection variants.
type Name string

const (
	DroneID       Name = "droneid"
	DroneIDLegacy Name = "droneid-legacy"
	C2            Name = "c2"
	Beacon        Name = "beacon"
	Pairing       Name = "pairing"
	Video         Name = "video"
)

// Detection is the subset of profile parameters the packetizer (C4) and
// band estimator (C3) need: the packet duration window to search for and
// the occupied-bandwidth range that confirms a candidate.
type Detection struct {
	Name                     Name
	MinDuration, MaxDuration time.Duration
	BandwidthMin, BandwidthMax float64 // Hz
}

// Demod extends Detection with the OFDM numerology needed by the frame
// demodulator (C6) and bit extractor (C7). Only droneid, droneid-legacy,
// and c2 have full numerologies; beacon/pairing/video are detection-only.
type Demod struct {
	Detection
	NCarriers   int
	CPPattern   []int
	ZCSymbolIdx [2]int
	DemodRate   float64 // Hz
}

// DC returns the DC-bin index for this profile's carrier count.
func (d Demod) DC() int { return d.NCarriers / 2 }

var (
	droneIDDetection = Detection{
		Name: DroneID, MinDuration: 630 * time.Microsecond, MaxDuration: 665 * time.Microsecond,
		BandwidthMin: 8e6, BandwidthMax: 11e6,
	}
	droneIDLegacyDetection = Detection{
		Name: DroneIDLegacy, MinDuration: 565 * time.Microsecond, MaxDuration: 600 * time.Microsecond,
		BandwidthMin: 8e6, BandwidthMax: 11e6,
	}
	c2Detection = Detection{
		Name: C2, MinDuration: 500 * time.Microsecond, MaxDuration: 520 * time.Microsecond,
		BandwidthMin: 1.2e6, BandwidthMax: 1.95e6,
	}
	beaconDetection = Detection{
		Name: Beacon, MinDuration: 490 * time.Microsecond, MaxDuration: 540 * time.Microsecond,
		BandwidthMin: 8e6, BandwidthMax: 11e6,
	}
	pairingDetection = Detection{
		Name: Pairing, MinDuration: 490 * time.Microsecond, MaxDuration: 540 * time.Microsecond,
		BandwidthMin: 8e6, BandwidthMax: 11e6,
	}
	videoDetection = Detection{
		Name: Video, MinDuration: 630 * time.Microsecond, MaxDuration: 665 * time.Microsecond,
		BandwidthMin: 18e6, BandwidthMax: 22e6,
	}
)

// DroneIDProfile is the current-generation 9-symbol droneid numerology.
var DroneIDProfile = Demod{
	Detection: droneIDDetection,
	NCarriers: 601,
	CPPattern: []int{80, 72, 72, 72, 72, 72, 72, 72, 80},
	ZCSymbolIdx: [2]int{3, 5},
	DemodRate: 15.36e6,
}

// DroneIDLegacyProfile is the 8-symbol numerology used by older airframes
// (e.g. Mavic Pro, Mavic 2).
var DroneIDLegacyProfile = Demod{
	Detection: droneIDLegacyDetection,
	NCarriers: 601,
	CPPattern: []int{80, 72, 72, 72, 72, 72, 72, 80},
	ZCSymbolIdx: [2]int{2, 4},
	DemodRate: 15.36e6,
}

// C2Profile is the narrowband command-channel numerology.
var C2Profile = Demod{
	Detection: c2Detection,
	NCarriers: 73,
	CPPattern: []int{80, 72, 72, 72, 72, 72, 80},
	ZCSymbolIdx: [2]int{0, 6},
	DemodRate: 1.92e6,
}

// demodByName resolves the three demod-capable profiles.
var demodByName = map[Name]Demod{
	DroneID:       DroneIDProfile,
	DroneIDLegacy: DroneIDLegacyProfile,
	C2:            C2Profile,
}

// detectionByName resolves every detection-capable profile, including the
// three demod-capable ones plus the detection-only variants.
var detectionByName = map[Name]Detection{
	DroneID:       droneIDDetection,
	DroneIDLegacy: droneIDLegacyDetection,
	C2:            c2Detection,
	Beacon:        beaconDetection,
	Pairing:       pairingDetection,
	Video:         videoDetection,
}

// LookupDemod resolves a profile name to its full numerology. ok is false
// for detection-only names (beacon, pairing, video) or unknown names.
func LookupDemod(name Name) (Demod, bool) {
	d, ok := demodByName[name]
	return d, ok
}

// LookupDetection resolves a profile name to its detection parameters.
func LookupDetection(name Name) (Detection, bool) {
	d, ok := detectionByName[name]
	return d, ok
}
