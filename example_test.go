package goSecurity_test

import (
	"context"
	"fmt"

	goSecurity "github.com/MrEthical07/goSecurity"
	"github.com/MrEthical07/goSecurity/strategy"
)

// ExampleManager_Login walks one session through login and logout.
func ExampleManager_Login() {
	m, err := goSecurity.New().Build()
	if err != nil {
		panic(err)
	}
	defer m.Close()

	m.Subscribe(func(ev goSecurity.AuthChanged) {
		fmt.Println("authenticated:", ev.Authenticated)
	})

	ctx := context.Background()
	_ = m.Login(ctx, "TOKEN123", nil, []string{"admin"})
	fmt.Println(m.HasPermission("admin"))
	_ = m.Logout(ctx)
	fmt.Println(m.IsAuthenticated())

	// Output:
	// authenticated: true
	// true
	// authenticated: false
	// false
}

// ExampleBuilder_WithStrategy reads the identity out of a JWT payload.
func ExampleBuilder_WithStrategy() {
	const token = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJuYW1lIjoiUGF0cmljayBQb3J0byJ9." +
		"UoOFQCTrjryDTvl4XeWymslGknL-9-Me8enyf_DC98M"

	m, err := goSecurity.New().WithStrategy(strategy.JWT).Build()
	if err != nil {
		panic(err)
	}
	defer m.Close()

	_ = m.Login(context.Background(), token, nil, nil)
	fmt.Println(m.GetUser()["name"])

	// Output:
	// Patrick Porto
}

// ExampleManager_MetricsSnapshot shows how to read in-process counters.
func ExampleManager_MetricsSnapshot() {
	m, _ := goSecurity.New().Build()
	defer m.Close()

	_ = m.Login(context.Background(), "", nil, nil)
	snapshot := m.MetricsSnapshot()
	fmt.Println(snapshot.Counters[goSecurity.MetricLoginFailure])

	// Output:
	// 1
}
