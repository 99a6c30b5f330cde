package webview

// controlPrefix marks messages that belong to the shim itself rather
// than the application. The leading NUL keeps application strings from
// colliding with it by accident.
const controlPrefix = "\x00porthole:"

// Control frame kinds, each followed by ":" and a URI.
const (
	frameNavigate  = "navigate"
	frameNewWindow = "newwindow"
)

// bridgeMarker identifies a document that already carries the shim.
const bridgeMarker = "__portholeDeliver"

// BridgeScript returns the script that establishes the JS side of the
// message channel. It maps the window.external.sendMessage and
// receiveMessage conventions expected by the UI framework's client
// runtime onto the bound native function, queues inbound messages until
// a receiver is registered, and reroutes external links, new windows
// and window.open calls into control frames for the navigation
// governor. It is injected natively before any document script runs and
// additionally inlined into served host pages.
func BridgeScript() string {
	return bridgeScript
}

const bridgeScript = `(function () {
    'use strict';
    if (window.external && window.external.sendMessage) { return; }
    var control = String.fromCharCode(0) + 'porthole:';
    var listeners = [];
    var pending = [];
    var post = function (message) {
        window.__portholePost(window.location.href, message);
    };
    window.external = {
        sendMessage: function (message) {
            if (typeof message !== 'string') {
                throw new Error('sendMessage expects a string');
            }
            post(message);
        },
        receiveMessage: function (callback) {
            listeners.push(callback);
            while (pending.length > 0) {
                var queued = pending.shift();
                for (var i = 0; i < listeners.length; i++) {
                    listeners[i](queued);
                }
            }
        }
    };
    window.__portholeDeliver = function (message) {
        if (listeners.length === 0) {
            pending.push(message);
            return;
        }
        for (var i = 0; i < listeners.length; i++) {
            listeners[i](message);
        }
    };
    document.addEventListener('click', function (ev) {
        if (ev.defaultPrevented || ev.button !== 0) { return; }
        if (ev.metaKey || ev.ctrlKey || ev.shiftKey || ev.altKey) { return; }
        var node = ev.target;
        while (node && node.tagName !== 'A') { node = node.parentElement; }
        if (!node || !node.href) { return; }
        if (node.target === '_blank') {
            ev.preventDefault();
            post(control + 'newwindow:' + node.href);
        } else if (node.origin !== window.location.origin) {
            ev.preventDefault();
            post(control + 'navigate:' + node.href);
        }
    }, true);
    var nativeOpen = window.open;
    window.open = function (url) {
        if (url) {
            var resolved = new URL(url, window.location.href).href;
            post(control + 'newwindow:' + resolved);
            return null;
        }
        return nativeOpen.apply(window, arguments);
    };
})();`
