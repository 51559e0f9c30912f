package permissions

import (
	"fmt"

	boxv1 "github.com/schrodinger-box/boxd/api-spec/box/v1"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

const (
	EntityBox     = "box"
	EntityManager = "manager"
	EntityFees    = "fees"
)

func ReadOnlyPermissions() []bakery.Op {
	return []bakery.Op{
		{
			Entity: EntityManager,
			Action: "read",
		},
		{
			Entity: EntityFees,
			Action: "read",
		},
	}
}

func AdminPermissions() []bakery.Op {
	return append(ReadOnlyPermissions(), []bakery.Op{
		{
			Entity: EntityManager,
			Action: "write",
		},
		{
			Entity: EntityFees,
			Action: "write",
		},
	}...)
}

// Whitelist returns the list of all whitelisted methods with the relative
// entity and action.
func Whitelist() map[string][]bakery.Op {
	box := boxv1.BoxService_ServiceDesc.ServiceName
	read := []bakery.Op{{Entity: EntityBox, Action: "read"}}
	write := []bakery.Op{{Entity: EntityBox, Action: "write"}}
	return map[string][]bakery.Op{
		fmt.Sprintf("/%s/GetInfo", box):          read,
		fmt.Sprintf("/%s/Mint", box):             write,
		fmt.Sprintf("/%s/Transfer", box):         write,
		fmt.Sprintf("/%s/GetOwner", box):         read,
		fmt.Sprintf("/%s/ListBoxes", box):        read,
		fmt.Sprintf("/%s/DepositFungible", box):  write,
		fmt.Sprintf("/%s/WithdrawFungible", box): write,
		fmt.Sprintf("/%s/DepositNft", box):       write,
		fmt.Sprintf("/%s/WithdrawNft", box):      write,
		fmt.Sprintf("/%s/GetBalance", box):       read,
		fmt.Sprintf("/%s/ContainsNft", box):      read,
		fmt.Sprintf("/%s/GetBox", box):           read,
		fmt.Sprintf("/%s/GetPeer", box):          read,
		fmt.Sprintf("/%s/QuoteFee", box):         read,
		fmt.Sprintf("/%s/Bridge", box):           write,
		fmt.Sprintf("/%s/GetEventStream", box):   read,
		"/grpc.health.v1.Health/Check":           {{Entity: "health", Action: "read"}},
		"/grpc.health.v1.Health/Watch":           {{Entity: "health", Action: "read"}},
	}
}

// AllPermissionsByMethod returns a mapping of the RPC server calls to the
// permissions they require.
func AllPermissionsByMethod() map[string][]bakery.Op {
	admin := boxv1.AdminService_ServiceDesc.ServiceName
	return map[string][]bakery.Op{
		fmt.Sprintf("/%s/SetPeer", admin): {{
			Entity: EntityManager,
			Action: "write",
		}},
		fmt.Sprintf("/%s/ListPeers", admin): {{
			Entity: EntityManager,
			Action: "read",
		}},
		fmt.Sprintf("/%s/GetFeeBalance", admin): {{
			Entity: EntityFees,
			Action: "read",
		}},
		fmt.Sprintf("/%s/WithdrawFees", admin): {{
			Entity: EntityFees,
			Action: "write",
		}},
		fmt.Sprintf("/%s/ResendBridgeMessage", admin): {{
			Entity: EntityManager,
			Action: "write",
		}},
		fmt.Sprintf("/%s/ListOutboundMessages", admin): {{
			Entity: EntityManager,
			Action: "read",
		}},
	}
}
