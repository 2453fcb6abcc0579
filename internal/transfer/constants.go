package transfer

// Log messages
const (
	LogMsgRestrictionsLoaded    = "Utility slot restrictions loaded"
	LogMsgRestrictionsInvalid   = "Utility slot restrictions rejected, leaving slots unrestricted"
	LogMsgRestrictionKeyIgnored = "Ignoring non-numeric utility slot key"
)
