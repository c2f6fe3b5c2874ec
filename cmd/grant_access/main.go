package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/app"
	"github.com/yungbote/coursehub-backend/internal/domain/commerce"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

type emailList []string

func (l *emailList) String() string { return strings.Join(*l, ",") }
func (l *emailList) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

// grant_access hands out complimentary entitlements to existing users by email.
func main() {
	var emails emailList
	var itemTypeRaw, itemIDRaw string
	var dryRun bool
	flag.Var(&emails, "email", "user email to grant (repeatable)")
	flag.StringVar(&itemTypeRaw, "type", "course", "item type: course or product")
	flag.StringVar(&itemIDRaw, "item", "", "course or product id")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned grants without writing")
	flag.Parse()

	itemType, err := commerce.ParseItemType(itemTypeRaw)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	itemID, err := uuid.Parse(strings.TrimSpace(itemIDRaw))
	if err != nil || itemID == uuid.Nil {
		fmt.Println("-item must be a valid id")
		os.Exit(2)
	}
	if len(emails) == 0 {
		fmt.Println("no -email values provided")
		return
	}

	ctx := context.Background()
	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	dbc := dbctx.Context{Ctx: ctx}
	granted, skipped := 0, 0
	for _, email := range emails {
		u, err := application.Repos.User.GetByEmail(dbc, email)
		if err != nil || u == nil {
			fmt.Printf("skip %s: user not found\n", email)
			skipped++
			continue
		}
		if dryRun {
			fmt.Printf("[dry-run] grant %s %s to %s (%s)\n", itemType, itemID, email, u.ID)
			continue
		}
		_, created, err := application.Services.Access.Grant(ctx, u.ID, itemType, itemID)
		if err != nil {
			fmt.Printf("grant failed for %s: %v\n", email, err)
			skipped++
			continue
		}
		if !created {
			fmt.Printf("%s already has access\n", email)
			continue
		}
		granted++
		fmt.Printf("granted %s %s to %s\n", itemType, itemID, email)
	}

	fmt.Printf("done; granted=%d skipped=%d\n", granted, skipped)
}
