package renderer

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        html, body { margin: 0; height: 100%; background: #111; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; }
        .stack-wrapper { position: relative; display: flex; align-items: center; justify-content: center; height: 100%; padding-top: 120px; box-sizing: border-box; touch-action: none; user-select: none; }
        .stack-item { position: absolute; display: inline-block; overflow: hidden; border-radius: 32px; transform-origin: center top; will-change: transform, opacity; }
        .stack-item img { display: block; border-radius: 32px; max-width: 70vw; max-height: 70vh; pointer-events: none; }
        .stack-item.front { cursor: grab; }
        .stack-item.front.dragging { cursor: grabbing; }
        .stack-item.disable { pointer-events: none; }
        .stack-info { position: absolute; right: 0; bottom: 0; max-width: 100%; display: flex; align-items: flex-start; padding: 30px; border-radius: 24px; background-color: #0003; backdrop-filter: blur(10px); -webkit-backdrop-filter: blur(10px); box-sizing: border-box; }
        .stack-info-icon { flex-shrink: 0; width: 40px; height: 40px; margin-right: 20px; }
        .stack-info-text { display: flex; align-items: center; min-height: 40px; }
        .stack-info p { color: #fff; margin: 0; font-size: 12px; }
    </style>
</head>
<body>
    <div class="stack-wrapper{{if .Class}} {{.Class}}{{end}}" id="stack"
         data-trigger="{{.Carousel.SlideTrigger}}" data-slides="{{len .Slides}}">
        {{range .Slides}}
        <figure class="stack-item{{if .Front}} front{{if $.State.Disabled}} disable{{end}}{{end}}"
                data-key="{{.ID}}" data-slide="{{.ID}}" style="{{.Style}}">
            <img src="{{.URL}}" alt="{{.Alt}}" draggable="false">
            {{if .CaptionHTML}}<figcaption class="stack-info">
                <svg class="stack-info-icon" viewBox="0 0 40 40" aria-hidden="true" focusable="false">
                    <circle cx="20" cy="20" r="18" fill="none" stroke="#fff" stroke-width="2"/>
                    <circle cx="20" cy="12.5" r="2" fill="#fff"/>
                    <rect x="18.5" y="17" width="3" height="12" rx="1.5" fill="#fff"/>
                </svg>
                <div class="stack-info-text">{{.CaptionHTML | safeHTML}}</div>
            </figcaption>{{end}}
        </figure>
        {{end}}
    </div>

    <script>
    (function () {
        const stack = document.getElementById('stack');
        let socket = null;
        let front = null;
        let frontScale = 1;
        let pressY = null;
        let pressedFront = false;

        function send(type, data) {
            if (socket && socket.readyState === WebSocket.OPEN) {
                socket.send(JSON.stringify({ type: type, data: data || {} }));
            }
        }

        function styleFor(v) {
            return 'transform: scale(' + v.scale.toFixed(4) + ') translateY(' + (v.translate_y + (v.drag_y || 0)).toFixed(2) + 'px);' +
                ' z-index: ' + v.z_index + '; opacity: ' + v.opacity.toFixed(3) + ';';
        }

        function nodeFor(v) {
            let node = stack.querySelector('[data-key="' + CSS.escape(v.key) + '"]');
            if (node) {
                return node;
            }
            const source = stack.querySelector('[data-key="' + CSS.escape(v.slide_id) + '"]');
            if (!source) {
                return null;
            }
            node = source.cloneNode(true);
            node.dataset.key = v.key;
            node.dataset.ghost = 'true';
            node.classList.remove('front', 'dragging', 'disable');
            stack.appendChild(node);
            return node;
        }

        function render(state) {
            const keep = new Set();
            front = null;
            (state.views || []).forEach(function (v) {
                const node = nodeFor(v);
                if (!node) {
                    return;
                }
                keep.add(v.key);
                node.setAttribute('style', styleFor(v));
                node.classList.toggle('front', !!v.interactive);
                node.classList.toggle('disable', !!v.disabled);
                node.classList.toggle('dragging', !!v.interactive && state.phase === 'dragging');
                if (v.interactive) {
                    front = node;
                    frontScale = v.scale || 1;
                }
            });
            stack.querySelectorAll('[data-ghost]').forEach(function (node) {
                if (!keep.has(node.dataset.key)) {
                    node.remove();
                }
            });
        }

        stack.addEventListener('pointerdown', function (e) {
            if (!front || !front.contains(e.target)) {
                return;
            }
            e.preventDefault();
            pressY = e.clientY;
            pressedFront = true;
            stack.setPointerCapture(e.pointerId);
            send('drag_start');
        });

        stack.addEventListener('pointermove', function (e) {
            if (pressY === null) {
                return;
            }
            send('drag_move', { dy: (e.clientY - pressY) / frontScale });
        });

        function release(e) {
            if (pressY === null) {
                return;
            }
            pressY = null;
            if (e.type === 'pointercancel') {
                pressedFront = false;
            }
            if (stack.hasPointerCapture(e.pointerId)) {
                stack.releasePointerCapture(e.pointerId);
            }
            send('drag_stop');
        }
        stack.addEventListener('pointerup', release);
        stack.addEventListener('pointercancel', release);

        // with pointer capture the click lands on the wrapper, not the slide
        stack.addEventListener('click', function () {
            if (pressedFront) {
                pressedFront = false;
                send('click');
            }
        });

        document.addEventListener('keydown', function (e) {
            if (e.key === 'ArrowDown' || e.key === ' ') {
                e.preventDefault();
                send('next');
            } else if (e.key === 'ArrowUp') {
                e.preventDefault();
                send('previous');
            }
        });

        function connect() {
            const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
            socket = new WebSocket(scheme + location.host + '/ws');
            socket.onmessage = function (msg) {
                const event = JSON.parse(msg.data);
                if (event.type === 'reload') {
                    location.reload();
                } else if (event.type === 'connected' || event.type === 'render') {
                    render(event.data);
                }
            };
            socket.onclose = function () {
                setTimeout(connect, 1000);
            };
        }

        render({{.State}});
        connect();
    })();
    </script>
</body>
</html>`
