package symbols

import "github.com/danmuck/fdowire/internal/protocol"

// Codes in the 128-255 criteria range are form-specific actions assigned by
// the protocol a form was created in; only the well-known ones are listed.
var criteria = map[string]uint8{
	"SELECTION":             1,
	"CLOSE":                 2,
	"GAIN_FOCUS":            4,
	"LOSE_FOCUS":            5,
	"CANCEL":                6,
	"ENTER_FREE":            7,
	"ENTER_PAID":            8,
	"CREATE":                9,
	"SET_ONLINE":            10,
	"SET_OFFLINE":           11,
	"RESTORE":               12,
	"MINIMIZE":              14,
	"RESTORE_FROM_MAXIMIZE": 15,
	"RESTORE_FROM_MINIMIZE": 16,
	"TIMEOUT":               17,
	"SCREEN_NAME_CHANGED":   18,
	"MOVIE_OVER":            19,
	"DROP":                  20,
	"URL_DROP":              21,
	"USER_DELETE":           22,
	"TOGGLE_UP":             23,
	"ACTIVATED":             24,
	"SEACTIVATED":           25,
	"POPUPMENU":             26,
	"DESTROYED":             27,
	"SAVED":                 28,
	"HAVE_MAIL":             128,
	"NO_MAIL":               129,
	"CHAT_UPDATE_COUNT":     130,
	"GIFVIEW_COMPLETE":      132,
	"Mip_Mail_Get_Status":   133,
	"Mip_Mail_Keep_As_New":  134,
	"Mip_Mail_Ignore":       135,
	"Mip_Mail_Read":         136,
	"Mip_Mail_Unsend":       137,
	"Mip_Mailsort_Update":   138,
}

var alertKinds = map[string]uint8{
	"info":        1,
	"error":       2,
	"pop_info":    3,
	"pop_error":   4,
	"warning":     5,
	"pop_warning": 6,
}

var objectTypes = map[string]uint8{
	"org_group":          0,
	"independent":        1,
	"ind_group":          1,
	"dms_list":           2,
	"sms_list":           3,
	"dss_list":           4,
	"sss_list":           5,
	"trigger":            6,
	"ornament":           7,
	"view":               8,
	"edit_view":          9,
	"boolean":            10,
	"selectable_boolean": 11,
	"range":              12,
	"select_range":       13,
	"tool_group":         17,
	"tab_group":          18,
	"tab_page":           19,
	"tree_control":       21,
}

// Orientation tokens: the plane (h, v), then horizontal justification
// (h-prefixed) and vertical justification (v-prefixed).
var orientations = map[string]uint8{
	"h":  0b10000000,
	"v":  0b01000000,
	"hc": 0b00000000,
	"hl": 0b00001000,
	"hr": 0b00010000,
	"hf": 0b00011000,
	"he": 0b00100000,
	"vc": 0b00000000,
	"vt": 0b00000001,
	"vb": 0b00000010,
	"vf": 0b00000011,
	"ve": 0b00000100,
}

var positions = map[string]uint8{
	"top_left":      1,
	"top_center":    2,
	"top_right":     3,
	"center_left":   4,
	"center_center": 5,
	"center_right":  6,
	"bottom_left":   7,
	"bottom_center": 8,
	"bottom_right":  9,
}

var frameTypes = map[string]uint8{
	"none":                0,
	"single_line_pop_in":  1,
	"single_line_pop_out": 2,
	"pop_in":              3,
	"pop_out":             4,
	"double_line":         5,
	"shadow":              6,
	"highlight":           7,
}

var fonts = map[string]uint8{
	"arial":         0,
	"courier":       1,
	"times_roman":   2,
	"system":        3,
	"fixed_system":  4,
	"ms_serif":      5,
	"ms_sans_serif": 6,
	"small_fonts":   7,
	"courier_new":   8,
	"script":        9,
	"ms_mincho":     10,
	"ms_gothic":     11,
}

// Registers A-D and 1-7 share the same code space.
var saveRegisters = map[string]uint8{
	"A": 0,
	"B": 1,
	"C": 2,
	"D": 3,
	"1": 0,
	"2": 1,
	"3": 2,
	"4": 3,
	"5": 4,
	"6": 5,
	"7": 6,
}

var triggerStyles = map[string]uint8{
	"default":       0,
	"place":         1,
	"rectangle":     2,
	"group_state":   3,
	"picture":       4,
	"plain_picture": 5,
}

var yesNo = map[string]uint8{
	"yes": 1,
	"no":  0,
}

var rawData = map[string]uint8{
	"dod_raw":      0,
	"dod_art":      1,
	"dod_form_art": 2,
	"dod_sound":    3,
}

var builtin = map[protocol.Domain]map[string]uint8{
	protocol.DomainCriteria:     criteria,
	protocol.DomainAlert:        alertKinds,
	protocol.DomainObjectType:   objectTypes,
	protocol.DomainOrientation:  orientations,
	protocol.DomainPosition:     positions,
	protocol.DomainFrameType:    frameTypes,
	protocol.DomainFont:         fonts,
	protocol.DomainSaveRegister: saveRegisters,
	protocol.DomainTriggerStyle: triggerStyles,
	protocol.DomainYesNo:        yesNo,
	protocol.DomainRawData:      rawData,
}
