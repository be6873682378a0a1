// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/mailit-go/mailit"
)

// Code example for the NewMail method
func ExampleNewMail() {
	m := mailit.NewMail()
	m.SetFrom("Toni Tester <toni@example.com>")
	m.SetTo("tina@example.com")
	m.SetSubject("Hello World")
	m.SetText("This is a test mail.")
	fmt.Println(m.From())
	fmt.Println(m.Subject())
	fmt.Println(m.IsMultipart())
	// Output: "=?utf-8?Q?Toni_Tester?=" <toni@example.com>
	// =?utf-8?Q?Hello_World?=
	// false
}

// Code example for the EncodeWord function
func ExampleEncodeWord() {
	fmt.Println(mailit.EncodeWord("a?b=c_d €", mailit.CharsetUTF8))
	// Output: =?utf-8?Q?a=3Fb=3Dc=5Fd_=E2=82=AC?=
}

// Code example for the Composer.Compose method
func ExampleComposer_Compose() {
	m := mailit.NewMail()
	m.SetFrom("toni@example.com")
	m.SetText("Hello")
	c := mailit.NewComposer(mailit.WithoutMessageID(),
		mailit.WithClock(func() time.Time { return time.Date(2009, time.March, 2, 10, 0, 0, 0, time.UTC) }))
	fmt.Print(strings.ReplaceAll(string(c.Compose(m)), "\r\n", "\n"))
	// Output: From: toni@example.com
	// Date: Mon, 02 Mar 2009 10:00:00 +0000
	//
	// Hello
}
