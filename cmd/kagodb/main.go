package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/mjunaidi/kagodb/bootstrap"
	"github.com/mjunaidi/kagodb/configuration"
)

var banner = `
 _                         _ _
| | ____ _  __ _  ___   __| | |__
| |/ / _` + "`" + ` |/ _` + "`" + ` |/ _ \ / _` + "`" + ` | '_ \
|   < (_| | (_| | (_) | (_| | |_) |
|_|\_\__,_|\__, |\___/ \__,_|_.__/
           |___/  version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	start, _ := bootstrap.Bootstrap(c)
	start()
}
