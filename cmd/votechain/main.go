package main

import (
	"github.com/tokenized/votechain/cmd/votechain/cmd"
)

// VoteChain CLI
//
func main() {
	cmd.Execute()
}
