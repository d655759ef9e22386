package core

var (
	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}
	_ error           = (*SdkError)(nil)
	_ error           = (*TransportError)(nil)
)
