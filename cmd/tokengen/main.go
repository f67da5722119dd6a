// Tokengen mints a connection token for manual testing against a local
// gateway. Real tokens come from the account service; this tool only
// exists so `wscat`-style sessions don't need it running.
package main

import (
	"chat-hub/auth"
	"flag"
	"fmt"
	"log"
	"time"
)

func main() {
	userID := flag.String("user", "", "User id to embed in the token")
	name := flag.String("name", "", "Display name to embed in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}
	if *name == "" {
		*name = *userID
	}

	token, err := auth.GenerateToken(*userID, *name, *ttl)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
