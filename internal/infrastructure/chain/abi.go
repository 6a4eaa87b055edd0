package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const predictionPoolABI = `[
	{"name":"makePrediction","type":"function","stateMutability":"payable","inputs":[
		{"name":"matchId","type":"uint256"},
		{"name":"predictedWinner","type":"uint8"}
	],"outputs":[]},
	{"name":"getMatchStats","type":"function","stateMutability":"view","inputs":[
		{"name":"matchId","type":"uint256"}
	],"outputs":[
		{"name":"team1Pool","type":"uint256"},
		{"name":"team2Pool","type":"uint256"},
		{"name":"winner","type":"uint8"},
		{"name":"finalized","type":"bool"}
	]},
	{"name":"claimReward","type":"function","stateMutability":"nonpayable","inputs":[
		{"name":"matchId","type":"uint256"}
	],"outputs":[]}
]`

const erc20ABI = `[
	{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[
		{"name":"account","type":"address"}
	],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

var (
	poolABI  = mustParseABI(predictionPoolABI)
	tokenABI = mustParseABI(erc20ABI)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
