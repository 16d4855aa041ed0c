// token 为运维人员签发访问令牌。
//
//	go run ./cmd/token -user admin-1 -role admin
//	go run ./cmd/token -user f-42 -role faculty -department CS
package main

import (
	"flag"
	"fmt"
	"os"

	"smart-schedule/config"
	"smart-schedule/pkg/jwt"
)

var validRoles = map[string]bool{"admin": true, "faculty": true, "student": true}

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	userID := flag.String("user", "", "用户 ID（必填）")
	role := flag.String("role", "admin", "角色：admin | faculty | student")
	department := flag.String("department", "", "所属院系")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "缺少 -user 参数")
		flag.Usage()
		os.Exit(2)
	}
	if !validRoles[*role] {
		fmt.Fprintf(os.Stderr, "无效的角色: %s\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(*userID, *role, *department)
	if err != nil {
		fmt.Fprintf(os.Stderr, "签发令牌失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
