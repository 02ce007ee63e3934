package payload

// Canonical record keys.
const (
	KeyTitle            = "title"
	KeyMessage          = "message"
	KeySound            = "sound"
	KeyIcon             = "icon"
	KeyColor            = "color"
	KeyCount            = "count"
	KeyPicture          = "picture"
	KeyStyle            = "style"
	KeySummaryText      = "summaryText"
	KeyVisibility       = "visibility"
	KeyPriority         = "priority"
	KeyLedColor         = "ledColor"
	KeyVibrationPattern = "vibrationPattern"
	KeyActions          = "actions"
	KeyCoresType        = "notificationCoresType"
	KeyNotificationID   = "notificationId"
	KeyLinkedItemID     = "linkedItemId"
)

// Supplementary keys understood by the presentation and lifecycle layers.
const (
	KeyLegacyNotificationID = "notId"
	KeyCoresPayload         = "coresPayload"
	KeyImage                = "image"
	KeyImageType            = "image-type"
	KeyOngoing              = "ongoing"
	KeyContentAvailable     = "content-available"
	KeyForceStart           = "force-start"
	KeyChannelID            = "android_channel_id"
	KeyLocKey               = "locKey"
	KeyLocData              = "locData"
)

// Flags added to records handed to the application bridge.
const (
	KeyForeground           = "foreground"
	KeyColdstart            = "coldstart"
	KeyTapped               = "tapped"
	KeyDismissed            = "dismissed"
	KeyActionCallback       = "actionCallback"
	KeyInlineReply          = "inlineReply"
	KeyOpenAllNotifications = "openAllNotifications"
	KeyGroupedNotifications = "groupedNotifications"
)

// Presentation styles.
const (
	StyleInbox   = "inbox"
	StylePicture = "picture"
	StyleText    = "text"
)

// Alert classes carried in KeyCoresType.
const (
	CoresTypeCritical = "critical"
	CoresTypeNormal   = "normal"
)

// Raw keys with special meaning during extraction.
const (
	keyData              = "data"
	keyNotificationBlock = "notification"
)

// Legacy aliases.
const (
	aliasBody             = "body"
	aliasAlert            = "alert"
	aliasMixpanelMessage  = "mp_message"
	aliasGCMBody          = "gcm.notification.body"
	aliasTwilioBody       = "twi_body"
	aliasPinpointBody     = "pinpoint.notification.body"
	aliasTwilioTitle      = "twi_title"
	aliasSubject          = "subject"
	aliasMessageCount     = "msgcnt"
	aliasBadge            = "badge"
	aliasSoundName        = "soundname"
	aliasTwilioSound      = "twi_sound"
	aliasPinpointImageURL = "pinpoint.notification.imageUrl"
)

// Vendor key prefixes, checked in this order.
const (
	prefixGCMNotification = "gcm.notification"
	prefixGCMShort        = "gcm.n"
	prefixUrbanAirship    = "com.urbanairship.push"
	prefixPinpoint        = "pinpoint.notification"
)
