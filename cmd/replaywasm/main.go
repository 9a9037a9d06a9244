//go:build js && wasm

package main

import "syscall/js"

func main() {
	js.Global().Set("__replayRun", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(badRequest("missing request payload"))
		}
		return mustJSON(handleRun(args[0].String()))
	}))
	js.Global().Set("__verifyDeal", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(badRequest("missing request payload"))
		}
		return mustJSON(handleVerify(args[0].String()))
	}))

	select {}
}
