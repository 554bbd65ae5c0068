package oui

// builtinBrands is the fixed OUI registry subset shipped with the binary.
// Keys are normalized XX:XX:XX prefixes. User overrides layer on top; see
// Table.Lookup.
var builtinBrands = map[string]string{
	// Apple
	"00:03:93": "Apple",
	"00:1C:B3": "Apple",
	"28:CF:E9": "Apple",
	"3C:22:FB": "Apple",
	"A4:83:E7": "Apple",
	"F0:18:98": "Apple",

	// Samsung
	"00:16:32": "Samsung",
	"5C:0A:5B": "Samsung",
	"8C:77:12": "Samsung",
	"C0:BD:D1": "Samsung",

	// Google
	"3C:5A:B4": "Google",
	"54:60:09": "Google",
	"F4:F5:D8": "Google",

	// Amazon
	"0C:47:C9": "Amazon",
	"44:65:0D": "Amazon",
	"FC:A1:83": "Amazon",

	// Raspberry Pi
	"B8:27:EB": "Raspberry Pi",
	"DC:A6:32": "Raspberry Pi",
	"E4:5F:01": "Raspberry Pi",

	// Espressif (ESP8266/ESP32)
	"24:0A:C4": "Espressif",
	"30:AE:A4": "Espressif",
	"84:CC:A8": "Espressif",

	// Intel
	"00:1B:21": "Intel",
	"3C:A9:F4": "Intel",
	"7C:7A:91": "Intel",

	// Dell
	"00:14:22": "Dell",
	"18:A9:9B": "Dell",
	"F8:BC:12": "Dell",

	// HP
	"00:1F:29": "HP",
	"3C:D9:2B": "HP",
	"94:57:A5": "HP",

	// Lenovo
	"54:EE:75": "Lenovo",
	"E8:6A:64": "Lenovo",

	// Xiaomi
	"28:6C:07": "Xiaomi",
	"64:09:80": "Xiaomi",
	"F8:A4:5F": "Xiaomi",

	// Huawei
	"00:E0:FC": "Huawei",
	"48:46:FB": "Huawei",

	// TP-Link
	"14:CC:20": "TP-Link",
	"50:C7:BF": "TP-Link",
	"EC:08:6B": "TP-Link",

	// Netgear
	"20:E5:2A": "Netgear",
	"A0:40:A0": "Netgear",

	// Cisco
	"00:1A:2F": "Cisco",
	"58:6D:8F": "Cisco",

	// Ubiquiti
	"24:A4:3C": "Ubiquiti",
	"74:AC:B9": "Ubiquiti",
	"F0:9F:C2": "Ubiquiti",

	// ASUS
	"04:D4:C4": "ASUS",
	"2C:FD:A1": "ASUS",

	// MikroTik
	"4C:5E:0C": "MikroTik",
	"64:D1:54": "MikroTik",

	// Sonos
	"00:0E:58": "Sonos",
	"94:9F:3E": "Sonos",

	// Philips
	"00:17:88": "Philips",
	"EC:B5:FA": "Philips",

	// Synology
	"00:11:32": "Synology",

	// Brother
	"00:80:77": "Brother",

	// Canon
	"00:1E:8F": "Canon",

	// Epson
	"00:26:AB": "Epson",

	// Nintendo
	"00:1F:C5": "Nintendo",
	"98:B6:E9": "Nintendo",

	// Sony
	"00:13:A9": "Sony",
	"FC:0F:E6": "Sony",

	// Microsoft
	"00:15:5D": "Microsoft",
	"28:18:78": "Microsoft",

	// LG
	"00:1E:75": "LG",
	"CC:2D:8C": "LG",

	// Roku
	"B0:A7:37": "Roku",
	"D8:31:34": "Roku",
}
