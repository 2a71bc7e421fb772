//go:build js && wasm

// Command tocwasm drives the table of contents on a rendered blog page.
//
// The page embeds its outline as JSON in <script id="toc-data">. Items of
// the contents list carry data-toc-id and links carry data-toc-target.
package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hoafnganh/notionblog/toc"
	"github.com/hoafnganh/notionblog/toc/domsurface"
)

type pageData struct {
	Outline   toc.Outline `json:"outline"`
	Threshold *float64    `json:"threshold"`
	Offset    *float64    `json:"offset"`
	FlashMS   int         `json:"flash_ms"`
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	entry := log.WithField("component", "toc")

	doc := js.Global().Get("document")
	data, ok := readPageData(doc)
	if !ok {
		entry.Debug("No outline on page")
		return
	}

	opts := []toc.SyncOption{
		toc.WithLogger(entry),
		toc.WithFlash(domsurface.Flash, msDuration(data.FlashMS)),
		toc.WithOnChange(func(id string) { markActive(doc, id) }),
	}
	if data.Threshold != nil && *data.Threshold >= 0 {
		opts = append(opts, toc.WithThreshold(*data.Threshold))
	}
	if data.Offset != nil && *data.Offset >= 0 {
		opts = append(opts, toc.WithOffset(*data.Offset))
	}

	syncer := toc.NewSynchronizer(domsurface.New(), opts...)
	syncer.Mount(data.Outline)

	click := js.FuncOf(func(_ js.Value, args []js.Value) any {
		link := args[0].Get("target").Call("closest", "a[data-toc-target]")
		if link.IsNull() {
			return nil
		}
		args[0].Call("preventDefault")
		syncer.NavigateTo(link.Get("dataset").Get("tocTarget").String())
		return nil
	})
	doc.Call("addEventListener", "click", click)

	var pagehide js.Func
	pagehide = js.FuncOf(func(js.Value, []js.Value) any {
		syncer.Close()
		doc.Call("removeEventListener", "click", click)
		click.Release()
		pagehide.Release()
		return nil
	})
	js.Global().Get("window").Call("addEventListener", "pagehide", pagehide)

	select {}
}

func readPageData(doc js.Value) (pageData, bool) {
	node := doc.Call("getElementById", "toc-data")
	if node.IsNull() {
		return pageData{}, false
	}
	var data pageData
	if err := json.Unmarshal([]byte(node.Get("textContent").String()), &data); err != nil {
		return pageData{}, false
	}
	return data, len(data.Outline) > 0
}

func markActive(doc js.Value, id string) {
	items := doc.Call("querySelectorAll", "[data-toc-id]")
	for i := 0; i < items.Length(); i++ {
		item := items.Index(i)
		active := id != "" && item.Get("dataset").Get("tocId").String() == id
		item.Get("classList").Call("toggle", "active", active)
	}
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
