package web

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Pixel Shuffle</title>
    <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }

    body {
        background-color: #292929;
        color: #e8e8e8;
        font-family: 'Courier New', monospace;
        min-height: 100vh;
        padding: 24px;
    }

    h1 { margin-bottom: 16px; }

    .panel {
        border: 1px solid #444;
        padding: 12px;
        margin-bottom: 16px;
        max-width: 640px;
    }

    button {
        background-color: #3a3a3a;
        color: #e8e8e8;
        border: 1px solid #555;
        padding: 6px 14px;
        margin-left: 6px;
        font-family: inherit;
        cursor: pointer;
    }
    button:hover { background-color: #4a4a4a; }

    input[type="number"] {
        width: 60px;
        background-color: #3a3a3a;
        color: #e8e8e8;
        border: 1px solid #555;
        padding: 4px;
        font-family: inherit;
    }

    .image-entry {
        display: flex;
        align-items: center;
        gap: 4px;
        padding: 6px 0;
        border-bottom: 1px solid #383838;
    }
    .image-entry span { flex: 1; }

    #frame-holder img {
        image-rendering: pixelated;
        max-width: 500px;
        display: block;
        margin-bottom: 16px;
        border: 1px solid #444;
    }

    @keyframes shudder {
        0%, 100% { transform: translate(0, 0) rotate(0deg); }
        25% { transform: translate(2px, 2px) rotate(1deg); }
        50% { transform: translate(-2px, -2px) rotate(-1deg); }
        75% { transform: translate(2px, -2px) rotate(1deg); }
    }

    @keyframes pixelate-in {
        0% { transform: scale(0); opacity: 0; }
        50% { transform: scale(1.2); }
        100% { transform: scale(1); opacity: 1; }
    }

    .pixel-grid {
        display: grid;
        gap: 1px;
        background-color: black;
        padding: 1px;
        width: 500px;
        height: 500px;
        perspective: 1000px;
    }

    .pixel {
        width: 100%;
        height: 100%;
        transition: background-color 0.3s ease;
        transform-origin: center;
    }

    .pixel.colored {
        animation: shudder 0.15s linear infinite;
    }

    .pixel.initializing {
        animation: pixelate-in 0.2s linear forwards;
    }
    </style>
</head>
<body>
    <h1>&#127922; Pixel Shuffle</h1>

    <div class="panel">
        <form id="upload-form">
            <input type="file" name="image" accept="image/png,image/jpeg,image/gif,image/webp,image/bmp" required>
            <label>block <input type="number" name="block_size" value="25" min="1"></label>
            <button type="submit">Upload</button>
        </form>
    </div>

    <div id="image-list" class="panel"></div>

    <div id="frame-holder"></div>
    <div id="grid-holder"></div>

    <script>
    var selectedId = null;

    function api(path) { return '/api/images' + path; }

    function refreshList() {
        fetch(api(''))
            .then(function (res) { return res.json(); })
            .then(renderList)
            .catch(function (err) { console.error(err); });
    }

    function renderList(images) {
        var list = document.getElementById('image-list');
        list.innerHTML = '';
        if (images.length === 0) {
            list.textContent = 'No images uploaded yet.';
            return;
        }
        images.forEach(function (img) {
            var entry = document.createElement('div');
            entry.className = 'image-entry';

            var label = document.createElement('span');
            label.textContent = img.name + ' (' + img.width + 'x' + img.height +
                ', ' + img.cells + ' pixels, ' + img.shakes + ' shakes)';
            entry.appendChild(label);

            entry.appendChild(actionButton('BUILD', function () { buildImage(img.id); }));
            if (img.built) {
                entry.appendChild(actionButton('SHAKE', function () { shakeImage(img.id); }));
                entry.appendChild(actionButton('GIF', function () {
                    window.open(api('/' + img.id + '/shake.gif'), '_blank');
                }));
            }
            entry.appendChild(actionButton('X', function () { deleteImage(img.id); }));

            list.appendChild(entry);
        });
    }

    function actionButton(text, onClick) {
        var btn = document.createElement('button');
        btn.textContent = text;
        btn.addEventListener('click', onClick);
        return btn;
    }

    function showState(id, animate) {
        var frame = document.getElementById('frame-holder');
        frame.innerHTML = '';
        var img = document.createElement('img');
        img.src = api('/' + id + '/frame.png') + '?t=' + Date.now();
        frame.appendChild(img);

        var url = api('/' + id + '/grid.html');
        if (animate) { url += '?animate=1'; }
        fetch(url)
            .then(function (res) { return res.text(); })
            .then(function (html) {
                document.getElementById('grid-holder').innerHTML = html;
            });
    }

    function buildImage(id) {
        fetch(api('/' + id + '/build'), { method: 'POST' })
            .then(function (res) { return res.json(); })
            .then(function () {
                selectedId = id;
                refreshList();
                showState(id, false);
            });
    }

    function shakeImage(id) {
        fetch(api('/' + id + '/shake'), { method: 'POST' })
            .then(function (res) {
                if (!res.ok) {
                    return res.json().then(function (body) { throw new Error(body.error); });
                }
                return res.json();
            })
            .then(function () {
                selectedId = id;
                refreshList();
                showState(id, true);
            })
            .catch(function (err) { alert(err.message); });
    }

    function deleteImage(id) {
        fetch(api('/' + id), { method: 'DELETE' })
            .then(function () {
                if (selectedId === id) {
                    document.getElementById('frame-holder').innerHTML = '';
                    document.getElementById('grid-holder').innerHTML = '';
                    selectedId = null;
                }
                refreshList();
            });
    }

    document.getElementById('upload-form').addEventListener('submit', function (ev) {
        ev.preventDefault();
        var data = new FormData(ev.target);
        fetch(api(''), { method: 'POST', body: data })
            .then(function (res) {
                if (!res.ok) {
                    return res.json().then(function (body) { throw new Error(body.error); });
                }
                return res.json();
            })
            .then(function () {
                ev.target.reset();
                refreshList();
            })
            .catch(function (err) { alert(err.message); });
    });

    refreshList();
    </script>
</body>
</html>
`
