package payload

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	coordScale = 174533.0
	altScale   = 3.281
)

// DeviceTypes maps DJI's device_type byte to its public model name.
var DeviceTypes = map[byte]string{
	1:  "Inspire 1",
	2:  "Phantom 3 Series",
	3:  "Phantom 3 Series",
	4:  "Phantom 3 Std",
	5:  "M100",
	6:  "ACEONE",
	7:  "WKM",
	8:  "NAZA",
	9:  "A2",
	10: "A3",
	11: "Phantom 4",
	12: "MG1",
	14: "M600",
	15: "Phantom 3 4k",
	16: "Mavic Pro",
	17: "Inspire 2",
	18: "Phantom 4 Pro",
	20: "N2",
	21: "Spark",
	23: "M600 Pro",
	24: "Mavic Air",
	25: "M200",
	26: "Phantom 4 Series",
	27: "Phantom 4 Adv",
	28: "M210",
	30: "M210RTK",
	31: "A3_AG",
	32: "MG2",
	34: "MG1A",
	35: "Phantom 4 RTK",
	36: "Phantom 4 Pro V2.0",
	38: "MG1P",
	40: "MG1P-RTK",
	41: "Mavic 2",
	44: "M200 V2 Series",
	51: "Mavic 2 Enterprise",
	53: "Mavic Mini",
	58: "Mavic Air 2",
	59: "P4M",
	60: "M300 RTK",
	61: "DJI FPV",
	63: "Mini 2",
	64: "AGRAS T10",
	65: "AGRAS T30",
	66: "Air 2S",
	67: "M30",
	68: "DJI Mavic 3",
	69: "Mavic 2 Enterprise Advanced",
	70: "Mini SE",
}

// DeviceTypeName resolves a device_type byte to its model name, or a
// generic placeholder for unrecognized codes.
func DeviceTypeName(t byte) string {
	if name, ok := DeviceTypes[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", t)
}

// Payload is the 91-byte DroneID broadcast frame, field-for-field per
// the design's schema table.
type Payload struct {
	PacketLen byte
	Version   byte
	Sequence  uint16
	StateInfo uint16
	Serial    string

	Longitude float64
	Latitude  float64
	Altitude  float64
	Height    float64

	VNorth, VEast, VUp int16
	YawPitchAngle      int16
	GPSTime            uint64

	AppLatitude, AppLongitude   float64
	HomeLongitude, HomeLatitude float64

	DeviceType     byte
	DeviceTypeName string
	UUIDLen        byte
	UUID           []byte

	CRC   uint16
	CRCOK bool
}

// ParsePayload decodes a 91-byte little-endian DroneID frame. data must
// be exactly 91 bytes.
func ParsePayload(data []byte) (*Payload, error) {
	if len(data) != payloadLen {
		return nil, fmt.Errorf("payload: expected %d bytes, got %d", payloadLen, len(data))
	}

	p := &Payload{}
	p.PacketLen = data[0]
	p.Version = data[2]
	p.Sequence = binary.LittleEndian.Uint16(data[3:5])
	p.StateInfo = binary.LittleEndian.Uint16(data[5:7])
	p.Serial = string(bytes.TrimRight(data[7:23], "\x00"))

	lonRaw := int32(binary.LittleEndian.Uint32(data[23:27]))
	latRaw := int32(binary.LittleEndian.Uint32(data[27:31]))
	p.Longitude = float64(lonRaw) / coordScale
	p.Latitude = float64(latRaw) / coordScale

	altRaw := int16(binary.LittleEndian.Uint16(data[31:33]))
	heightRaw := int16(binary.LittleEndian.Uint16(data[33:35]))
	p.Altitude = float64(altRaw) / altScale
	p.Height = float64(heightRaw) / altScale

	p.VNorth = int16(binary.LittleEndian.Uint16(data[35:37]))
	p.VEast = int16(binary.LittleEndian.Uint16(data[37:39]))
	p.VUp = int16(binary.LittleEndian.Uint16(data[39:41]))
	p.YawPitchAngle = int16(binary.LittleEndian.Uint16(data[41:43]))
	p.GPSTime = binary.LittleEndian.Uint64(data[43:51])

	appLatRaw := int32(binary.LittleEndian.Uint32(data[51:55]))
	appLonRaw := int32(binary.LittleEndian.Uint32(data[55:59]))
	homeLonRaw := int32(binary.LittleEndian.Uint32(data[59:63]))
	homeLatRaw := int32(binary.LittleEndian.Uint32(data[63:67]))
	p.AppLatitude = float64(appLatRaw) / coordScale
	p.AppLongitude = float64(appLonRaw) / coordScale
	p.HomeLongitude = float64(homeLonRaw) / coordScale
	p.HomeLatitude = float64(homeLatRaw) / coordScale

	p.DeviceType = data[67]
	p.DeviceTypeName = DeviceTypeName(p.DeviceType)
	p.UUIDLen = data[68]
	p.UUID = append([]byte(nil), data[69:89]...)

	p.CRC = binary.LittleEndian.Uint16(data[89:91])
	p.CRCOK = Verify(data)

	return p, nil
}

func (p *Payload) String() string {
	return fmt.Sprintf("%s (%s) seq=%d lat=%.6f lon=%.6f alt=%.1fm crc_ok=%v",
		p.Serial, p.DeviceTypeName, p.Sequence, p.Latitude, p.Longitude, p.Altitude, p.CRCOK)
}
