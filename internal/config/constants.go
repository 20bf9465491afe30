package config

import "time"

// Well-known network names.
const (
	NetworkHardhat = "hardhat"
	NetworkSepolia = "sepolia"
)

// Named account roles.
const (
	RoleDeployer = "deployer"
	RolePlayer   = "player"
)

// GasLimitDeploy is used when the node cannot estimate a contract creation.
const GasLimitDeploy = uint64(3_000_000)

// Timeouts and poll intervals for chain interaction.
const (
	RPCDialTimeout   = 10 * time.Second
	RPCPingTimeout   = 5 * time.Second
	TxDeployTimeout  = 10 * time.Minute // receipt plus confirmations
	ReceiptPollEvery = 2 * time.Second
)
