package config

const (
	errMsgDecoderInit  = "Could not build the configuration decoder."
	errMsgDecodeFailed = "Configuration sub-tree does not match its schema."
	errMsgInvalid      = "Decoded configuration is invalid."
)
